package main

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// Seed populates a development database with a small, stable dataset. Every
// record is keyed on a natural unique column so reruns are no-ops.
func Seed(db *gorm.DB) error {
	log.Println("Seeding database...")

	if _, err := seedUser(db, "Admin", "admin@cleanapp.local", "admin123", models.RoleAdmin, "55999990000"); err != nil {
		return err
	}

	customer1, err := seedUser(db, "Cliente 1", "cliente1@cleanapp.local", "cliente123", models.RoleCustomer, "5583980000001")
	if err != nil {
		return err
	}
	customer2, err := seedUser(db, "Cliente 2", "cliente2@cleanapp.local", "cliente123", models.RoleCustomer, "5583980000002")
	if err != nil {
		return err
	}
	providerUser1, err := seedUser(db, "Prestador 1", "prestador1@cleanapp.local", "prestador123", models.RoleProvider, "5583980001001")
	if err != nil {
		return err
	}
	providerUser2, err := seedUser(db, "Prestador 2", "prestador2@cleanapp.local", "prestador123", models.RoleProvider, "5583980001002")
	if err != nil {
		return err
	}

	addresses := []models.Address{
		{UserID: customer1.ID, Label: "Casa", Street: "Rua das Flores", Number: "100", District: "Centro",
			City: "Pocinhos", State: "PB", Zip: "58150000", Lat: ptr(-7.076), Lng: ptr(-36.066), IsDefault: true},
		{UserID: customer2.ID, Label: "Ap", Street: "Av. Brasil", Number: "200", District: "Bairro Novo",
			City: "Campina Grande", State: "PB", Zip: "58400000", Lat: ptr(-7.23), Lng: ptr(-35.88), IsDefault: true},
		{UserID: providerUser1.ID, Label: "Base Operacional", Street: "Rua do Prestador 1", Number: "10", District: "Centro",
			City: "Pocinhos", State: "PB", Zip: "58150000", Lat: ptr(-7.07), Lng: ptr(-36.06), IsDefault: true},
		{UserID: providerUser2.ID, Label: "Base Operacional", Street: "Rua do Prestador 2", Number: "20", District: "Centro",
			City: "Campina Grande", State: "PB", Zip: "58400000", Lat: ptr(-7.2305), Lng: ptr(-35.8795), IsDefault: true},
	}
	for i := range addresses {
		a := addresses[i]
		if err := db.Where("user_id = ? AND street = ?", a.UserID, a.Street).
			FirstOrCreate(&addresses[i], a).Error; err != nil {
			return err
		}
	}

	profile1, err := seedProfile(db, providerUser1.ID, "Especialista em limpeza residencial.", 12, true)
	if err != nil {
		return err
	}
	profile2, err := seedProfile(db, providerUser2.ID, "Jardinagem e manutenção de áreas verdes.", 20, false)
	if err != nil {
		return err
	}

	categoryNames := []string{
		"Limpeza", "Jardinagem", "Aulas",
		"Limpeza Residencial", "Limpeza Comercial", "Limpeza de Veículos",
		"Lavanderia", "Limpeza Pesada", "Urgente",
	}
	slugOverrides := map[string]string{
		"Limpeza Residencial": "residencial",
		"Limpeza Comercial":   "comercial",
		"Limpeza de Veículos": "veiculos",
		"Limpeza Pesada":      "pesada",
	}
	categories := make(map[string]models.ServiceCategory, len(categoryNames))
	for _, name := range categoryNames {
		slug := slugOverrides[name]
		if slug == "" {
			slug = utils.Slugify(name)
		}
		var category models.ServiceCategory
		if err := db.Where("slug = ?", slug).
			FirstOrCreate(&category, models.ServiceCategory{Name: name, Slug: slug, Active: true}).Error; err != nil {
			return err
		}
		categories[slug] = category
	}

	offers := []models.ServiceOffer{
		{ProviderID: profile1.ID, CategoryID: categories["limpeza"].ID, Title: "Faxina completa",
			Description: "Limpeza geral, inclui cozinha e banheiros.",
			PriceBase:   decimal.RequireFromString("90.00"), Unit: models.UnitHora, Active: true},
		{ProviderID: profile1.ID, CategoryID: categories["limpeza"].ID, Title: "Diarista",
			Description: "Serviço diário com materiais do cliente.",
			PriceBase:   decimal.RequireFromString("180.00"), Unit: models.UnitDiaria, Active: true},
		{ProviderID: profile2.ID, CategoryID: categories["jardinagem"].ID, Title: "Poda e manutenção",
			Description: "Poda de arbustos, gramado e limpeza do jardim.",
			PriceBase:   decimal.RequireFromString("200.00"), Unit: models.UnitDiaria, Active: true},
		{ProviderID: profile1.ID, CategoryID: categories["residencial"].ID, Title: "Limpeza Residencial",
			Description: "Casa, apê e quintal. Materiais do cliente.",
			PriceBase:   decimal.RequireFromString("45.00"), Unit: models.UnitHora, Active: true},
		{ProviderID: profile1.ID, CategoryID: categories["comercial"].ID, Title: "Limpeza Comercial",
			Description: "Escritórios e lojas. Equipe treinada.",
			PriceBase:   decimal.RequireFromString("55.00"), Unit: models.UnitHora, Active: true},
		{ProviderID: profile1.ID, CategoryID: categories["lavanderia"].ID, Title: "Lavanderia",
			Description: "Roupas, tecidos e uniformes.",
			PriceBase:   decimal.RequireFromString("35.00"), Unit: models.UnitHora, Active: true},
		{ProviderID: profile2.ID, CategoryID: categories["pesada"].ID, Title: "Limpeza Pesada",
			Description: "Pós-obra, reforma e mudança.",
			PriceBase:   decimal.RequireFromString("65.00"), Unit: models.UnitHora, Active: true},
	}
	for i := range offers {
		o := offers[i]
		if err := db.Where("provider_id = ? AND title = ?", o.ProviderID, o.Title).
			FirstOrCreate(&offers[i], o).Error; err != nil {
			return err
		}
	}

	log.Println("Database seeded")
	return nil
}

func seedUser(db *gorm.DB, name, email, password string, role models.UserRole, phone string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user = models.User{Name: name, Email: email, PasswordHash: hash, Role: role, Phone: phone}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedProfile(db *gorm.DB, userID uint, bio string, radiusKm float64, verified bool) (*models.ProviderProfile, error) {
	var profile models.ProviderProfile
	if err := db.Where("user_id = ?", userID).
		FirstOrCreate(&profile, models.ProviderProfile{UserID: userID, Bio: bio, RadiusKm: radiusKm, Verified: verified}).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func ptr(f float64) *float64 { return &f }
