package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
)

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingStore) BookingNumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingStore) CompleteWithEarning(ctx context.Context, booking *models.Booking, earning *models.Earning) error {
	args := m.Called(ctx, booking, earning)
	return args.Error(0)
}

func (m *mockBookingStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingStore) ListByHandyman(ctx context.Context, handymanID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	args := m.Called(ctx, handymanID, limit, offset)
	return args.Get(0).([]models.Booking), args.Error(1)
}

type mockUserStoreForBooking struct {
	mock.Mock
}

func (m *mockUserStoreForBooking) GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockSkillStoreForBooking struct {
	mock.Mock
}

func (m *mockSkillStoreForBooking) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *mockSkillStoreForBooking) GetHandymanSkill(ctx context.Context, handymanID, skillID uuid.UUID) (*models.HandymanSkill, error) {
	args := m.Called(ctx, handymanID, skillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandymanSkill), args.Error(1)
}

type mockEarningStoreForBooking struct {
	mock.Mock
}

func (m *mockEarningStoreForBooking) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Earning, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Earning), args.Error(1)
}

type bookingServiceFixture struct {
	bookings *mockBookingStore
	users    *mockUserStoreForBooking
	skills   *mockSkillStoreForBooking
	earnings *mockEarningStoreForBooking
	svc      *BookingService
}

func newBookingFixture() *bookingServiceFixture {
	f := &bookingServiceFixture{
		bookings: new(mockBookingStore),
		users:    new(mockUserStoreForBooking),
		skills:   new(mockSkillStoreForBooking),
		earnings: new(mockEarningStoreForBooking),
	}
	f.svc = NewBookingService(f.bookings, f.users, f.skills, f.earnings, 0.10)
	return f
}

func validCreateInput(handymanID, skillID uuid.UUID) CreateBookingInput {
	return CreateBookingInput{
		CustomerID:     uuid.New(),
		HandymanID:     handymanID,
		SkillID:        skillID,
		Title:          "Починить кран",
		Description:    "Течёт кран на кухне",
		Location:       "ул. Ленина, 1",
		EstimatedHours: 4,
	}
}

func TestBookingService_CreateBooking_RateOverride(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()
	override := 50.0

	f.users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	f.skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 40, IsActive: true}, nil)
	f.skills.On("GetHandymanSkill", ctx, handymanID, skillID).Return(&models.HandymanSkill{
		HandymanID: handymanID,
		SkillID:    skillID,
		HourlyRate: &override,
	}, nil)
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := f.svc.CreateBooking(ctx, validCreateInput(handymanID, skillID))

	assert.NoError(t, err)
	assert.Equal(t, 50.0, booking.HourlyRate)
	assert.Equal(t, 200.0, booking.TotalAmount)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Regexp(t, `^BK-\d{4}-\d{4}$`, booking.BookingNumber)
}

func TestBookingService_CreateBooking_BaseRateFallback(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	f.users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	f.skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 35.5, IsActive: true}, nil)
	f.skills.On("GetHandymanSkill", ctx, handymanID, skillID).Return(&models.HandymanSkill{
		HandymanID: handymanID,
		SkillID:    skillID,
	}, nil)
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	in := validCreateInput(handymanID, skillID)
	in.EstimatedHours = 2

	booking, err := f.svc.CreateBooking(ctx, in)

	assert.NoError(t, err)
	assert.Equal(t, 35.5, booking.HourlyRate)
	assert.Equal(t, 71.0, booking.TotalAmount)
}

func TestBookingService_CreateBooking_HoursOutOfRange(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	for _, hours := range []int{0, 25, -1} {
		in := validCreateInput(uuid.New(), uuid.New())
		in.EstimatedHours = hours

		_, err := f.svc.CreateBooking(ctx, in)
		assert.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
}

func TestBookingService_CreateBooking_ScheduledInPast(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	in := validCreateInput(uuid.New(), uuid.New())
	in.ScheduledAt = &past

	_, err := f.svc.CreateBooking(ctx, in)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestBookingService_CreateBooking_NoCertificationUsesBaseRate(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	f.users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	f.skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 40, IsActive: true}, nil)
	// Сертификации по услуге нет: действует базовая ставка услуги.
	f.skills.On("GetHandymanSkill", ctx, handymanID, skillID).Return(nil, nil)
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := f.svc.CreateBooking(ctx, validCreateInput(handymanID, skillID))

	assert.NoError(t, err)
	assert.Equal(t, 40.0, booking.HourlyRate)
	assert.Equal(t, 160.0, booking.TotalAmount)
}

func TestBookingService_CreateBooking_InactiveSkill(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	f.users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	// Неактивная услуга скрыта из каталога, но прямую заявку не блокирует.
	f.skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 40, IsActive: false}, nil)
	f.skills.On("GetHandymanSkill", ctx, handymanID, skillID).Return(nil, nil)
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := f.svc.CreateBooking(ctx, validCreateInput(handymanID, skillID))

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
}

func TestBookingService_CreateBooking_NumberRetry(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	f.users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	f.skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 40, IsActive: true}, nil)
	f.skills.On("GetHandymanSkill", ctx, handymanID, skillID).Return(&models.HandymanSkill{
		HandymanID: handymanID,
		SkillID:    skillID,
	}, nil)
	// Первый номер занят, второй свободен.
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	f.bookings.On("BookingNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	f.bookings.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	booking, err := f.svc.CreateBooking(ctx, validCreateInput(handymanID, skillID))
	assert.NoError(t, err)
	assert.NotEmpty(t, booking.BookingNumber)
	f.bookings.AssertNumberOfCalls(t, "BookingNumberExists", 2)
}

func pendingBooking(customerID, handymanID uuid.UUID) *models.Booking {
	return &models.Booking{
		ID:          uuid.New(),
		CustomerID:  customerID,
		HandymanID:  handymanID,
		Status:      models.BookingStatusPending,
		TotalAmount: 200,
	}
}

func TestBookingService_UpdateStatus_HandymanAccepts(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	booking := pendingBooking(uuid.New(), handymanID)
	handyman := &models.User{ID: handymanID, Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.bookings.On("UpdateStatus", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, handyman, models.BookingStatusAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, updated.Status)
}

func TestBookingService_UpdateStatus_InProgressStampsStartedAt(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	booking := pendingBooking(uuid.New(), handymanID)
	booking.Status = models.BookingStatusAccepted
	handyman := &models.User{ID: handymanID, Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.bookings.On("UpdateStatus", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, handyman, models.BookingStatusInProgress)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, updated.Status)
	assert.NotNil(t, updated.StartedAt)
}

func TestBookingService_UpdateStatus_CompleteCreatesEarning(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	booking := pendingBooking(uuid.New(), handymanID)
	booking.Status = models.BookingStatusInProgress
	handyman := &models.User{ID: handymanID, Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.earnings.On("GetByBookingID", ctx, booking.ID).Return(nil, nil)
	f.bookings.On("CompleteWithEarning", ctx, mock.AnythingOfType("*models.Booking"), mock.AnythingOfType("*models.Earning")).
		Run(func(args mock.Arguments) {
			earning := args.Get(2).(*models.Earning)
			assert.Equal(t, 200.0, earning.Amount)
			assert.Equal(t, 20.0, earning.PlatformFee)
			assert.Equal(t, 180.0, earning.NetAmount)
			assert.Equal(t, models.EarningStatusPending, earning.Status)
		}).
		Return(nil)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, handyman, models.BookingStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
}

func TestBookingService_UpdateStatus_CompleteIsIdempotent(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	booking := pendingBooking(uuid.New(), handymanID)
	booking.Status = models.BookingStatusInProgress
	handyman := &models.User{ID: handymanID, Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.earnings.On("GetByBookingID", ctx, booking.ID).Return(&models.Earning{ID: uuid.New()}, nil)
	f.bookings.On("UpdateStatus", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	_, err := f.svc.UpdateStatus(ctx, booking.ID, handyman, models.BookingStatusCompleted)
	assert.NoError(t, err)
	f.bookings.AssertNotCalled(t, "CompleteWithEarning", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_CustomerCancelsPending(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	customerID := uuid.New()
	booking := pendingBooking(customerID, uuid.New())
	customer := &models.User{ID: customerID, Role: models.RoleCustomer}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	f.bookings.On("UpdateStatus", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, customer, models.BookingStatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, updated.Status)
}

func TestBookingService_UpdateStatus_CustomerCannotCancelInProgress(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	customerID := uuid.New()
	booking := pendingBooking(customerID, uuid.New())
	booking.Status = models.BookingStatusInProgress
	customer := &models.User{ID: customerID, Role: models.RoleCustomer}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	// Запрос не проходит по политике переходов: ответ успешный, заявка не меняется.
	updated, err := f.svc.UpdateStatus(ctx, booking.ID, customer, models.BookingStatusCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, updated.Status)
	f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_CompletedIsTerminal(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handymanID := uuid.New()
	booking := pendingBooking(uuid.New(), handymanID)
	booking.Status = models.BookingStatusCompleted
	handyman := &models.User{ID: handymanID, Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	updated, err := f.svc.UpdateStatus(ctx, booking.ID, handyman, models.BookingStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, updated.Status)
	f.bookings.AssertNotCalled(t, "CompleteWithEarning", mock.Anything, mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_InvalidStatusValue(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handyman := &models.User{ID: uuid.New(), Role: models.RoleHandyman}

	_, err := f.svc.UpdateStatus(ctx, uuid.New(), handyman, "destroyed")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// pending валиден как хранимое значение, но не назначается запросом.
	_, err = f.svc.UpdateStatus(ctx, uuid.New(), handyman, models.BookingStatusPending)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestBookingService_UpdateStatus_StrangerForbidden(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	booking := pendingBooking(uuid.New(), uuid.New())
	stranger := &models.User{ID: uuid.New(), Role: models.RoleHandyman}

	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	_, err := f.svc.UpdateStatus(ctx, booking.ID, stranger, models.BookingStatusAccepted)
	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestBookingService_GetBooking_Access(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	customerID := uuid.New()
	booking := pendingBooking(customerID, uuid.New())
	f.bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)

	got, err := f.svc.GetBooking(ctx, booking.ID, &models.User{ID: customerID, Role: models.RoleCustomer})
	assert.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	_, err = f.svc.GetBooking(ctx, booking.ID, &models.User{ID: uuid.New(), Role: models.RoleCustomer})
	assert.True(t, apperror.IsForbidden(err))

	got, err = f.svc.GetBooking(ctx, booking.ID, &models.User{ID: uuid.New(), Role: models.RoleAdmin})
	assert.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
}

func TestBookingService_ListMyBookings_ByRole(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	handyman := &models.User{ID: uuid.New(), Role: models.RoleHandyman}
	customer := &models.User{ID: uuid.New(), Role: models.RoleCustomer}

	f.bookings.On("ListByHandyman", ctx, handyman.ID, 20, 0).Return([]models.Booking{{ID: uuid.New()}}, nil)
	f.bookings.On("ListByCustomer", ctx, customer.ID, 20, 0).Return([]models.Booking{}, nil)

	list, err := f.svc.ListMyBookings(ctx, handyman, 20, 0)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.svc.ListMyBookings(ctx, customer, 0, -5)
	assert.NoError(t, err)
	assert.Len(t, list, 0)
}
