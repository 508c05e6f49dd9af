package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/handyman-backend/internal/models"
	"github.com/ignatzorin/handyman-backend/internal/pkg/apperror"
	"github.com/ignatzorin/handyman-backend/internal/repository"
)

type mockAdminUserStore struct {
	mock.Mock
}

func (m *mockAdminUserStore) GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAdminUserStore) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	args := m.Called(ctx, userID, verified)
	return args.Error(0)
}

func (m *mockAdminUserStore) ListUsers(ctx context.Context, params repository.UserListParams) ([]models.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.User), args.Error(1)
}

type mockAdminSkillStore struct {
	mock.Mock
}

func (m *mockAdminSkillStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *mockAdminSkillStore) UpdateBaseRate(ctx context.Context, skillID uuid.UUID, baseRate float64) error {
	args := m.Called(ctx, skillID, baseRate)
	return args.Error(0)
}

func (m *mockAdminSkillStore) SetCertificationLevel(ctx context.Context, handymanID, skillID uuid.UUID, level string) error {
	args := m.Called(ctx, handymanID, skillID, level)
	return args.Error(0)
}

func (m *mockAdminSkillStore) ListWithHandymenCount(ctx context.Context, limit, offset int) ([]models.SkillWithHandymenCount, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.SkillWithHandymenCount), args.Error(1)
}

type mockAdminReportStore struct {
	mock.Mock
}

func (m *mockAdminReportStore) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DashboardStats), args.Error(1)
}

func (m *mockAdminReportStore) GetMonthlyStats(ctx context.Context, months int) ([]repository.MonthlyStat, error) {
	args := m.Called(ctx, months)
	return args.Get(0).([]repository.MonthlyStat), args.Error(1)
}

func (m *mockAdminReportStore) GetPopularSkills(ctx context.Context, limit int) ([]repository.PopularSkill, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.PopularSkill), args.Error(1)
}

func (m *mockAdminReportStore) GetTopHandymen(ctx context.Context, limit int) ([]repository.TopHandyman, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]repository.TopHandyman), args.Error(1)
}

func newAdminService() (*AdminService, *mockAdminUserStore, *mockAdminSkillStore, *mockAdminReportStore) {
	users := new(mockAdminUserStore)
	skills := new(mockAdminSkillStore)
	reports := new(mockAdminReportStore)
	return NewAdminService(users, skills, reports), users, skills, reports
}

func TestAdminService_UpdateSkillBaseRate(t *testing.T) {
	svc, _, skills, _ := newAdminService()
	ctx := context.Background()

	skillID := uuid.New()
	skills.On("UpdateBaseRate", ctx, skillID, 45.0).Return(nil)
	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 45}, nil)

	skill, err := svc.UpdateSkillBaseRate(ctx, skillID, 45)
	assert.NoError(t, err)
	assert.Equal(t, 45.0, skill.BaseRate)
}

func TestAdminService_UpdateSkillBaseRate_ZeroAllowed(t *testing.T) {
	svc, _, skills, _ := newAdminService()
	ctx := context.Background()

	skillID := uuid.New()
	skills.On("UpdateBaseRate", ctx, skillID, 0.0).Return(nil)
	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, BaseRate: 0}, nil)

	skill, err := svc.UpdateSkillBaseRate(ctx, skillID, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, skill.BaseRate)
}

func TestAdminService_UpdateSkillBaseRate_OutOfRange(t *testing.T) {
	svc, _, skills, _ := newAdminService()
	ctx := context.Background()

	for _, rate := range []float64{-1, 1000.01, 5000} {
		_, err := svc.UpdateSkillBaseRate(ctx, uuid.New(), rate)
		assert.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}
	skills.AssertNotCalled(t, "UpdateBaseRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_SetCertificationLevel(t *testing.T) {
	svc, users, skills, _ := newAdminService()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	skills.On("SetCertificationLevel", ctx, handymanID, skillID, models.CertificationExpert).Return(nil)

	err := svc.SetCertificationLevel(ctx, handymanID, skillID, models.CertificationExpert)
	assert.NoError(t, err)
}

func TestAdminService_SetCertificationLevel_InvalidLevel(t *testing.T) {
	svc, users, _, _ := newAdminService()
	ctx := context.Background()

	err := svc.SetCertificationLevel(ctx, uuid.New(), uuid.New(), "guru")
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	users.AssertNotCalled(t, "GetHandymanByID", mock.Anything, mock.Anything)
}

func TestAdminService_SetCertificationLevel_NotCertified(t *testing.T) {
	svc, users, skills, _ := newAdminService()
	ctx := context.Background()

	handymanID := uuid.New()
	skillID := uuid.New()

	users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil)
	skills.On("SetCertificationLevel", ctx, handymanID, skillID, models.CertificationBeginner).
		Return(repository.ErrHandymanSkillNotFound)

	err := svc.SetCertificationLevel(ctx, handymanID, skillID, models.CertificationBeginner)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdminService_SetHandymanVerified(t *testing.T) {
	svc, users, _, _ := newAdminService()
	ctx := context.Background()

	handymanID := uuid.New()
	users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman}, nil).Once()
	users.On("SetVerified", ctx, handymanID, true).Return(nil)
	users.On("GetHandymanByID", ctx, handymanID).Return(&models.User{ID: handymanID, Role: models.RoleHandyman, IsVerified: true}, nil).Once()

	handyman, err := svc.SetHandymanVerified(ctx, handymanID, true)
	assert.NoError(t, err)
	assert.True(t, handyman.IsVerified)
}

func TestAdminService_SetHandymanVerified_NotFound(t *testing.T) {
	svc, users, _, _ := newAdminService()
	ctx := context.Background()

	handymanID := uuid.New()
	users.On("GetHandymanByID", ctx, handymanID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.SetHandymanVerified(ctx, handymanID, true)
	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	users.AssertNotCalled(t, "SetVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminService_GetPlatformReport_Defaults(t *testing.T) {
	svc, _, _, reports := newAdminService()
	ctx := context.Background()

	reports.On("GetDashboardStats", ctx).Return(&repository.DashboardStats{}, nil)
	reports.On("GetMonthlyStats", ctx, 6).Return([]repository.MonthlyStat{}, nil)
	reports.On("GetPopularSkills", ctx, 5).Return([]repository.PopularSkill{}, nil)
	reports.On("GetTopHandymen", ctx, 5).Return([]repository.TopHandyman{}, nil)

	// Значения вне допустимых пределов заменяются значениями по умолчанию.
	report, err := svc.GetPlatformReport(ctx, 0, 100)
	assert.NoError(t, err)
	assert.NotNil(t, report.Dashboard)
	reports.AssertExpectations(t)
}
