package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Limpeza", "limpeza"},
		{"Limpeza Residencial", "limpeza-residencial"},
		{"Limpeza de Veículos", "limpeza-de-veiculos"},
		{"Jardinagem & Manutenção", "jardinagem-manutencao"},
		{"  Aulas  ", "aulas"},
		{"Pós-Obra", "pos-obra"},
		{"REFORMA 2024", "reforma-2024"},
		{"", ""},
		{"---", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}
