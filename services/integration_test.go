package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"cleanapp-server/database"
	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

// recordingNotifier captures chat notifications so tests can assert on them
// without a live WebSocket hub.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []uint // conversation ids that received message:new
	patches  []map[string]interface{}
}

func (n *recordingNotifier) NotifyNewMessage(conversationID uint, _ *models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, conversationID)
}

func (n *recordingNotifier) NotifyConversationUpdated(_ uint, patch map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.patches = append(n.patches, patch)
}

func (n *recordingNotifier) messageCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// MarketplaceIntegrationTestSuite runs the service layer against a real
// PostgreSQL container to verify the lifecycle, concurrency and invariant
// behavior that sqlite or mocks would not exercise faithfully.
type MarketplaceIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB

	users         *services.UserService
	addresses     *services.AddressService
	categories    *services.CategoryService
	offers        *services.OfferService
	jobs          *services.JobService
	reviews       *services.ReviewService
	conversations *services.ConversationService
	notifier      *recordingNotifier

	emailSeq int
}

func (s *MarketplaceIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := database.Connect(connStr)
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(db))
	s.db = db
}

func (s *MarketplaceIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE TABLE reviews, messages, conversations, payments, jobs, service_offers, service_categories, provider_profiles, addresses, users RESTART IDENTITY CASCADE",
	).Error)

	s.notifier = &recordingNotifier{}
	s.users = services.NewUserService(s.db)
	s.addresses = services.NewAddressService(s.db)
	s.categories = services.NewCategoryService(s.db)
	s.offers = services.NewOfferService(s.db)
	s.jobs = services.NewJobService(s.db)
	s.reviews = services.NewReviewService(s.db)
	s.conversations = services.NewConversationService(s.db, s.notifier)
}

func (s *MarketplaceIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func TestMarketplaceIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(MarketplaceIntegrationTestSuite))
}

// --- fixture helpers ---

func (s *MarketplaceIntegrationTestSuite) register(role string) *models.User {
	s.emailSeq++
	user, err := s.users.Register(models.RegisterRequest{
		Name:     fmt.Sprintf("User %d", s.emailSeq),
		Email:    fmt.Sprintf("user%d@test.local", s.emailSeq),
		Password: "secret123",
		Role:     role,
	})
	s.Require().NoError(err)
	return user
}

func (s *MarketplaceIntegrationTestSuite) addAddress(userID uint, lat, lng *float64, isDefault bool) *models.Address {
	address, err := s.addresses.CreateMine(userID, models.AddressCreateRequest{
		Label:     "Casa",
		Street:    fmt.Sprintf("Rua %d", userID),
		Number:    "1",
		City:      "Pocinhos",
		State:     "PB",
		Zip:       "58150000",
		Lat:       lat,
		Lng:       lng,
		IsDefault: isDefault,
	})
	s.Require().NoError(err)
	return address
}

func (s *MarketplaceIntegrationTestSuite) newOffer(providerUserID uint, price string) *models.ServiceOffer {
	category, err := s.categories.Create(models.CategoryCreateRequest{Name: fmt.Sprintf("Limpeza %d", providerUserID)})
	s.Require().NoError(err)

	offer, err := s.offers.CreateMine(providerUserID, models.OfferCreateRequest{
		Title:      "Faxina completa",
		PriceBase:  decimal.RequireFromString(price),
		Unit:       models.UnitHora,
		CategoryID: category.ID,
	})
	s.Require().NoError(err)
	return offer
}

// marketplaceFixture wires a customer with a located default address, a
// provider with a located base address and one active offer.
type marketplaceFixture struct {
	customer *models.User
	provider *models.User
	address  *models.Address
	offer    *models.ServiceOffer
}

func (s *MarketplaceIntegrationTestSuite) newFixture() marketplaceFixture {
	customer := s.register("customer")
	provider := s.register("provider")

	address := s.addAddress(customer.ID, ptrF(-7.076), ptrF(-36.066), true)
	s.addAddress(provider.ID, ptrF(-7.07), ptrF(-36.06), true)

	offer := s.newOffer(provider.ID, "90.00")
	return marketplaceFixture{customer: customer, provider: provider, address: address, offer: offer}
}

func (s *MarketplaceIntegrationTestSuite) createJob(f marketplaceFixture) (*models.Job, *float64) {
	job, distanceKm, err := s.jobs.Create(f.customer.ID, models.JobCreateRequest{
		OfferID:   f.offer.ID,
		AddressID: f.address.ID,
		Datetime:  time.Now().Add(48 * time.Hour),
		Notes:     "bring keys",
	})
	s.Require().NoError(err)
	return job, distanceKm
}

func ptrF(f float64) *float64 { return &f }

// --- job lifecycle ---

func (s *MarketplaceIntegrationTestSuite) TestJobLifecycle_HappyPath() {
	f := s.newFixture()

	job, distanceKm := s.createJob(f)
	s.Equal(models.JobStatusPending, job.Status)
	s.Equal(models.PaymentStatusHold, job.PaymentStatus)
	s.Nil(job.ProviderID)

	// Both sides have coordinates, so the estimate carries the distance
	// surcharge of 2.00 per km.
	s.Require().NotNil(distanceKm)
	wantPrice := decimal.RequireFromString("90.00").
		Add(decimal.NewFromFloat(*distanceKm).Mul(decimal.NewFromInt(2)).Round(2))
	s.True(job.PriceEstimated.Equal(wantPrice), "estimated %s, want %s", job.PriceEstimated, wantPrice)

	// A mock payment row is opened with the job.
	var payments []models.Payment
	s.Require().NoError(s.db.Where("job_id = ?", job.ID).Find(&payments).Error)
	s.Require().Len(payments, 1)
	s.Equal("requires_capture", payments[0].Status)
	s.True(payments[0].Amount.Equal(job.PriceEstimated))

	accepted, err := s.jobs.Accept(job.ID, f.provider.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusAccepted, accepted.Status)
	s.Require().NotNil(accepted.ProviderID)
	s.Equal(f.provider.ID, *accepted.ProviderID)

	// Accept provisions the conversation exactly once.
	var conversationCount int64
	s.Require().NoError(s.db.Model(&models.Conversation{}).Where("job_id = ?", job.ID).Count(&conversationCount).Error)
	s.Equal(int64(1), conversationCount)

	started, err := s.jobs.Start(job.ID, f.provider.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, started.Status)

	done, err := s.jobs.Finish(job.ID, f.provider.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusDone, done.Status)
	s.Equal(models.PaymentStatusCaptured, done.PaymentStatus)
	s.Require().NotNil(done.PriceFinal)
	s.True(done.PriceFinal.Equal(done.PriceEstimated))
}

func (s *MarketplaceIntegrationTestSuite) TestJobCreate_WithoutCoordinates_UsesBasePrice() {
	customer := s.register("customer")
	provider := s.register("provider")
	address := s.addAddress(customer.ID, nil, nil, true)
	offer := s.newOffer(provider.ID, "120.50")

	job, distanceKm, err := s.jobs.Create(customer.ID, models.JobCreateRequest{
		OfferID:   offer.ID,
		AddressID: address.ID,
		Datetime:  time.Now().Add(24 * time.Hour),
	})
	s.Require().NoError(err)
	s.Nil(distanceKm)
	s.True(job.PriceEstimated.Equal(decimal.RequireFromString("120.50")))
}

func (s *MarketplaceIntegrationTestSuite) TestJobCreate_RejectsInactiveOfferAndForeignAddress() {
	f := s.newFixture()

	inactive := false
	_, err := s.offers.UpdateMine(f.provider.ID, f.offer.ID, models.OfferUpdateRequest{Active: &inactive})
	s.Require().NoError(err)

	_, _, err = s.jobs.Create(f.customer.ID, models.JobCreateRequest{
		OfferID: f.offer.ID, AddressID: f.address.ID, Datetime: time.Now().Add(time.Hour),
	})
	s.Require().Error(err)
	s.Equal("INVALID_OFFER", errs.CodeOf(err))

	active := true
	_, err = s.offers.UpdateMine(f.provider.ID, f.offer.ID, models.OfferUpdateRequest{Active: &active})
	s.Require().NoError(err)

	stranger := s.register("customer")
	_, _, err = s.jobs.Create(stranger.ID, models.JobCreateRequest{
		OfferID: f.offer.ID, AddressID: f.address.ID, Datetime: time.Now().Add(time.Hour),
	})
	s.Require().Error(err)
	s.True(errors.Is(err, errs.ErrForbidden))
	s.Equal("ADDRESS_FORBIDDEN", errs.CodeOf(err))
}

func (s *MarketplaceIntegrationTestSuite) TestConcurrentAccept_ExactlyOneWins() {
	f := s.newFixture()
	rival := s.register("provider")
	job, _ := s.createJob(f)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, providerID := range []uint{f.provider.ID, rival.ID} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			_, err := s.jobs.Accept(job.ID, id)
			results <- err
		}(providerID)
	}
	wg.Wait()
	close(results)

	var failures []error
	for err := range results {
		if err != nil {
			failures = append(failures, err)
		}
	}
	s.Require().Len(failures, 1, "exactly one accept must lose")
	s.True(errors.Is(failures[0], errs.ErrInvalidState))

	// The winner's assignment is final and only one conversation exists.
	var reloaded models.Job
	s.Require().NoError(s.db.First(&reloaded, job.ID).Error)
	s.Equal(models.JobStatusAccepted, reloaded.Status)
	s.Require().NotNil(reloaded.ProviderID)
	s.Contains([]uint{f.provider.ID, rival.ID}, *reloaded.ProviderID)

	var conversationCount int64
	s.Require().NoError(s.db.Model(&models.Conversation{}).Where("job_id = ?", job.ID).Count(&conversationCount).Error)
	s.Equal(int64(1), conversationCount)
}

func (s *MarketplaceIntegrationTestSuite) TestTransitions_GuardOrderAndFinality() {
	f := s.newFixture()
	job, _ := s.createJob(f)

	// A provider that never accepted cannot start: the job is still pending,
	// and a pending job has no assigned provider, so this is forbidden.
	_, err := s.jobs.Start(job.ID, f.provider.ID)
	s.True(errors.Is(err, errs.ErrForbidden))

	_, err = s.jobs.Accept(job.ID, f.provider.ID)
	s.Require().NoError(err)

	// Finishing from accepted skips in_progress.
	_, err = s.jobs.Finish(job.ID, f.provider.ID)
	s.True(errors.Is(err, errs.ErrInvalidState))

	// A different provider is rejected as forbidden even when the state
	// would otherwise allow the transition.
	rival := s.register("provider")
	_, err = s.jobs.Start(job.ID, rival.ID)
	s.True(errors.Is(err, errs.ErrForbidden))

	_, err = s.jobs.Start(job.ID, f.provider.ID)
	s.Require().NoError(err)
	_, err = s.jobs.Finish(job.ID, f.provider.ID)
	s.Require().NoError(err)

	// Terminal states are permanent.
	_, err = s.jobs.Cancel(job.ID, f.customer.ID, models.RoleCustomer, "too late")
	s.True(errors.Is(err, errs.ErrInvalidState))
	_, err = s.jobs.Accept(job.ID, rival.ID)
	s.True(errors.Is(err, errs.ErrInvalidState))
}

func (s *MarketplaceIntegrationTestSuite) TestCancel_RefundsAndRecordsReason() {
	f := s.newFixture()
	job, _ := s.createJob(f)

	// The provider cannot cancel a job it was never assigned to.
	_, err := s.jobs.Cancel(job.ID, f.provider.ID, models.RoleProvider, "not mine")
	s.True(errors.Is(err, errs.ErrForbidden))

	canceled, err := s.jobs.Cancel(job.ID, f.customer.ID, models.RoleCustomer, "changed plans")
	s.Require().NoError(err)
	s.Equal(models.JobStatusCanceled, canceled.Status)
	s.Equal(models.PaymentStatusRefunded, canceled.PaymentStatus)
	s.Equal("bring keys\n[cancel] changed plans", canceled.Notes)
}

// --- reviews ---

func (s *MarketplaceIntegrationTestSuite) finishJob(f marketplaceFixture) *models.Job {
	job, _ := s.createJob(f)
	_, err := s.jobs.Accept(job.ID, f.provider.ID)
	s.Require().NoError(err)
	_, err = s.jobs.Start(job.ID, f.provider.ID)
	s.Require().NoError(err)
	done, err := s.jobs.Finish(job.ID, f.provider.ID)
	s.Require().NoError(err)
	return done
}

func (s *MarketplaceIntegrationTestSuite) providerProfile(userID uint) models.ProviderProfile {
	var profile models.ProviderProfile
	s.Require().NoError(s.db.Where("user_id = ?", userID).First(&profile).Error)
	return profile
}

func (s *MarketplaceIntegrationTestSuite) TestReviews_UpsertAndAggregate() {
	f := s.newFixture()
	job1 := s.finishJob(f)
	job2 := s.finishJob(f)

	_, err := s.reviews.CreateOrUpdateForJob(job1.ID, f.customer.ID, models.ReviewCreateRequest{Rating: 5})
	s.Require().NoError(err)
	_, err = s.reviews.CreateOrUpdateForJob(job2.ID, f.customer.ID, models.ReviewCreateRequest{Rating: 3})
	s.Require().NoError(err)

	profile := s.providerProfile(f.provider.ID)
	s.Equal(2, profile.TotalReviews)
	s.InDelta(4.0, profile.ScoreAvg, 0.001)

	// Re-reviewing the same job overwrites instead of adding.
	comment := "much better"
	_, err = s.reviews.CreateOrUpdateForJob(job2.ID, f.customer.ID, models.ReviewCreateRequest{Rating: 5, Comment: &comment})
	s.Require().NoError(err)

	profile = s.providerProfile(f.provider.ID)
	s.Equal(2, profile.TotalReviews)
	s.InDelta(5.0, profile.ScoreAvg, 0.001)

	result, err := s.reviews.ListForProvider(f.provider.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), result.Total)
	s.Equal(int64(2), result.Summary.Count)
	s.InDelta(5.0, result.Summary.Average, 0.001)
}

func (s *MarketplaceIntegrationTestSuite) TestReviews_Guards() {
	f := s.newFixture()
	job, _ := s.createJob(f)

	// Not done yet.
	_, err := s.reviews.CreateOrUpdateForJob(job.ID, f.customer.ID, models.ReviewCreateRequest{Rating: 4})
	s.True(errors.Is(err, errs.ErrInvalidState))
	s.Equal("JOB_NOT_DONE", errs.CodeOf(err))

	done := s.finishJob(f)

	// Only the job's customer may review.
	stranger := s.register("customer")
	_, err = s.reviews.CreateOrUpdateForJob(done.ID, stranger.ID, models.ReviewCreateRequest{Rating: 1})
	s.True(errors.Is(err, errs.ErrForbidden))
}

func (s *MarketplaceIntegrationTestSuite) TestReviews_RecomputeAllRepairsDrift() {
	f := s.newFixture()
	job := s.finishJob(f)
	_, err := s.reviews.CreateOrUpdateForJob(job.ID, f.customer.ID, models.ReviewCreateRequest{Rating: 4})
	s.Require().NoError(err)

	// Simulate drifted aggregates, e.g. from a manual data fix.
	s.Require().NoError(s.db.Model(&models.ProviderProfile{}).
		Where("user_id = ?", f.provider.ID).
		Updates(map[string]interface{}{"score_avg": 1.0, "total_reviews": 99}).Error)

	s.Require().NoError(s.reviews.RecomputeAll())

	profile := s.providerProfile(f.provider.ID)
	s.Equal(1, profile.TotalReviews)
	s.InDelta(4.0, profile.ScoreAvg, 0.001)
}

// --- addresses ---

func (s *MarketplaceIntegrationTestSuite) defaultCount(userID uint) int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).Count(&count).Error)
	return count
}

func (s *MarketplaceIntegrationTestSuite) TestAddresses_AtMostOneDefault() {
	customer := s.register("customer")

	first := s.addAddress(customer.ID, nil, nil, true)
	second := s.addAddress(customer.ID, nil, nil, true)

	s.Equal(int64(1), s.defaultCount(customer.ID))

	var reloaded models.Address
	s.Require().NoError(s.db.First(&reloaded, second.ID).Error)
	s.True(reloaded.IsDefault)

	// Flipping the default back is transactional.
	_, err := s.addresses.SetDefaultMine(customer.ID, first.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.defaultCount(customer.ID))
	s.Require().NoError(s.db.First(&reloaded, first.ID).Error)
	s.True(reloaded.IsDefault)

	// Another user's address is invisible, not forbidden.
	stranger := s.register("customer")
	_, err = s.addresses.SetDefaultMine(stranger.ID, first.ID)
	s.Equal("ADDRESS_NOT_FOUND", errs.CodeOf(err))
}

func (s *MarketplaceIntegrationTestSuite) TestAddresses_CoordinatesComeTogether() {
	customer := s.register("customer")
	_, err := s.addresses.CreateMine(customer.ID, models.AddressCreateRequest{
		Street: "Rua das Flores", City: "Pocinhos", State: "PB", Zip: "58150000",
		Lat: ptrF(-7.076),
	})
	s.True(errors.Is(err, errs.ErrInvalidInput))
}

func (s *MarketplaceIntegrationTestSuite) TestAddresses_DeleteGuardsAndPromotion() {
	f := s.newFixture()
	job, _ := s.createJob(f)

	// Referenced by a pending job: blocked.
	err := s.addresses.DeleteMine(f.customer.ID, f.address.ID)
	s.True(errors.Is(err, errs.ErrInUse))
	s.Equal("ADDRESS_IN_USE", errs.CodeOf(err))

	// Once the job is terminal the address may go; the newest remaining
	// address is promoted to default.
	_, err = s.jobs.Cancel(job.ID, f.customer.ID, models.RoleCustomer, "moving")
	s.Require().NoError(err)

	spare := s.addAddress(f.customer.ID, nil, nil, false)
	s.Require().NoError(s.addresses.DeleteMine(f.customer.ID, f.address.ID))

	var reloaded models.Address
	s.Require().NoError(s.db.First(&reloaded, spare.ID).Error)
	s.True(reloaded.IsDefault)
}

// --- conversations ---

func (s *MarketplaceIntegrationTestSuite) acceptedConversation(f marketplaceFixture) (*models.Job, *models.Conversation) {
	job, _ := s.createJob(f)
	_, err := s.jobs.Accept(job.ID, f.provider.ID)
	s.Require().NoError(err)

	var conversation models.Conversation
	s.Require().NoError(s.db.Where("job_id = ?", job.ID).First(&conversation).Error)
	return job, &conversation
}

func (s *MarketplaceIntegrationTestSuite) TestConversations_AccessAndMessaging() {
	f := s.newFixture()
	_, conversation := s.acceptedConversation(f)

	// Outsiders cannot see the conversation at all.
	stranger := s.register("customer")
	_, err := s.conversations.Get(stranger.ID, conversation.ID)
	s.True(errors.Is(err, errs.ErrForbidden))

	message, err := s.conversations.Send(f.customer.ID, conversation.ID, "when can you come?")
	s.Require().NoError(err)
	s.Equal(f.customer.ID, message.SenderID)
	s.False(message.Read)
	s.Equal(1, s.notifier.messageCount())

	_, err = s.conversations.Send(stranger.ID, conversation.ID, "intruding")
	s.True(errors.Is(err, errs.ErrForbidden))

	// Listing as the provider marks the received messages read.
	page, err := s.conversations.ListMessages(f.provider.ID, conversation.ID, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("when can you come?", page.Items[0].Content)

	var unread int64
	s.Require().NoError(s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND read = ?", conversation.ID, false).Count(&unread).Error)
	s.Equal(int64(0), unread)

	// Nothing left to flip.
	updated, err := s.conversations.MarkAllRead(f.provider.ID, conversation.ID)
	s.Require().NoError(err)
	s.Equal(int64(0), updated)
}

func (s *MarketplaceIntegrationTestSuite) TestConversations_InboxListing() {
	f := s.newFixture()
	_, conversation := s.acceptedConversation(f)

	_, err := s.conversations.Send(f.provider.ID, conversation.ID, "on my way")
	s.Require().NoError(err)
	_, err = s.conversations.Send(f.provider.ID, conversation.ID, "arrived")
	s.Require().NoError(err)

	inbox, err := s.conversations.List(f.customer.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), inbox.Total)
	s.Require().Len(inbox.Items, 1)
	s.Equal(int64(2), inbox.Items[0].UnreadCount)
	s.Require().NotNil(inbox.Items[0].LastMessage)
	s.Equal("arrived", inbox.Items[0].LastMessage.Content)

	// The provider sees no unread messages of their own.
	inbox, err = s.conversations.List(f.provider.ID, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(0), inbox.Items[0].UnreadCount)
}

// --- offers ---

func (s *MarketplaceIntegrationTestSuite) TestOffers_ListingWithDistance() {
	f := s.newFixture()

	// A second provider far outside any reasonable radius.
	far := s.register("provider")
	s.addAddress(far.ID, ptrF(-23.55), ptrF(-46.63), true)
	category, err := s.categories.Create(models.CategoryCreateRequest{Name: "Jardinagem"})
	s.Require().NoError(err)
	_, err = s.offers.CreateMine(far.ID, models.OfferCreateRequest{
		Title: "Poda", PriceBase: decimal.RequireFromString("200.00"), CategoryID: category.ID,
	})
	s.Require().NoError(err)

	// Near the fixture customer, sorted nearest first.
	result, err := s.offers.List(services.OfferListParams{
		NearLat: ptrF(-7.076), NearLng: ptrF(-36.066),
	})
	s.Require().NoError(err)
	s.Require().Len(result.Items, 2)
	s.Equal(f.offer.ID, result.Items[0].ID)
	s.Require().NotNil(result.Items[0].DistanceKm)

	// Radius filter drops the distant provider.
	result, err = s.offers.List(services.OfferListParams{
		NearLat: ptrF(-7.076), NearLng: ptrF(-36.066), RadiusKm: ptrF(50),
	})
	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)
	s.Equal(f.offer.ID, result.Items[0].ID)

	// Unknown category slug yields an empty page, not an error.
	result, err = s.offers.List(services.OfferListParams{CategorySlug: "does-not-exist"})
	s.Require().NoError(err)
	s.Empty(result.Items)
}

func (s *MarketplaceIntegrationTestSuite) TestOffers_DeleteInUseGuard() {
	f := s.newFixture()
	job, _ := s.createJob(f)

	err := s.offers.DeleteMine(f.provider.ID, f.offer.ID)
	s.True(errors.Is(err, errs.ErrInUse))
	s.Equal("OFFER_IN_USE", errs.CodeOf(err))

	_, err = s.jobs.Cancel(job.ID, f.customer.ID, models.RoleCustomer, "")
	s.Require().NoError(err)
	s.Require().NoError(s.offers.DeleteMine(f.provider.ID, f.offer.ID))
}

// --- users ---

func (s *MarketplaceIntegrationTestSuite) TestUsers_RegisterAndAuthenticate() {
	user, err := s.users.Register(models.RegisterRequest{
		Name: "Cliente 1", Email: "cliente1@test.local", Password: "cliente123",
	})
	s.Require().NoError(err)
	s.Equal(models.RoleCustomer, user.Role)

	_, err = s.users.Register(models.RegisterRequest{
		Name: "Cliente 2", Email: "cliente1@test.local", Password: "cliente123",
	})
	s.True(errors.Is(err, errs.ErrConflict))
	s.Equal("EMAIL_TAKEN", errs.CodeOf(err))

	authed, err := s.users.Authenticate("cliente1@test.local", "cliente123")
	s.Require().NoError(err)
	s.Equal(user.ID, authed.ID)

	_, err = s.users.Authenticate("cliente1@test.local", "wrong")
	s.True(errors.Is(err, errs.ErrUnauthorized))

	// A provider registration carries its profile.
	provider := s.register("provider")
	profile := s.providerProfile(provider.ID)
	s.Equal(provider.ID, profile.UserID)
}

func (s *MarketplaceIntegrationTestSuite) TestCategories_SlugConflictAndInUseGuard() {
	category, err := s.categories.Create(models.CategoryCreateRequest{Name: "Limpeza Pesada"})
	s.Require().NoError(err)
	s.Equal("limpeza-pesada", category.Slug)

	_, err = s.categories.Create(models.CategoryCreateRequest{Name: "Outra", Slug: "limpeza-pesada"})
	s.True(errors.Is(err, errs.ErrConflict))
	s.Equal("SLUG_TAKEN", errs.CodeOf(err))

	f := s.newFixture()
	err = s.categories.Delete(f.offer.CategoryID)
	s.True(errors.Is(err, errs.ErrInUse))
}
