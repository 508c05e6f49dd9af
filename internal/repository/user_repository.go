package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/handyman-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// userColumns — общий список колонок, чтобы не таскать SELECT * по коду.
const userColumns = `id, email, name, password_hash, role, phone, location, bio, rating, total_reviews, is_verified, last_login_at, created_at, updated_at`

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role, phone, location, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, rating, total_reviews, is_verified, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role, user.Phone, user.Location, user.Bio,
	).Scan(&user.ID, &user.Rating, &user.TotalReviews, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// GetHandymanByID возвращает пользователя с ролью handyman.
func (r *UserRepository) GetHandymanByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2`
	if err := r.db.GetContext(ctx, &user, query, id, models.RoleHandyman); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get handyman by id %w", err)
	}

	return &user, nil
}

// UpdateLastLoginAt обновляет отметку последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("user repository: update last_login_at %w", err)
	}
	return nil
}

// SetVerified выставляет флаг проверки мастера (админская операция).
func (r *UserRepository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_verified = $2, updated_at = NOW() WHERE id = $1`, userID, verified)
	if err != nil {
		return fmt.Errorf("user repository: set verified %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HandymanSearchParams — параметры публичного поиска мастеров.
type HandymanSearchParams struct {
	SkillID   *uuid.UUID
	Location  string
	MinRating *float64
	SortBy    string // "rating" или "recent"
	Limit     int
	Offset    int
}

// SearchHandymen возвращает мастеров с учётом фильтров по услуге,
// подстроке локации и минимальному рейтингу.
func (r *UserRepository) SearchHandymen(ctx context.Context, params HandymanSearchParams) ([]models.HandymanSearchResult, error) {
	var (
		conds []string
		args  []interface{}
	)

	conds = append(conds, "u.role = $1")
	args = append(args, models.RoleHandyman)

	if params.SkillID != nil {
		args = append(args, *params.SkillID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM handyman_skills hs WHERE hs.handyman_id = u.id AND hs.skill_id = $%d)", len(args)))
	}

	if params.Location != "" {
		args = append(args, "%"+params.Location+"%")
		conds = append(conds, fmt.Sprintf("u.location ILIKE $%d", len(args)))
	}

	if params.MinRating != nil {
		args = append(args, *params.MinRating)
		conds = append(conds, fmt.Sprintf("u.rating >= $%d", len(args)))
	}

	orderBy := "u.rating DESC, u.total_reviews DESC"
	if params.SortBy == "recent" {
		orderBy = "u.created_at DESC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT u.id, u.name, u.location, u.bio, u.rating, u.total_reviews, u.is_verified, u.created_at
		FROM users u
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, strings.Join(conds, " AND "), orderBy, len(args)-1, len(args))

	var results []models.HandymanSearchResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("user repository: search handymen %w", err)
	}
	return results, nil
}

// UserListParams — фильтры админского списка пользователей.
type UserListParams struct {
	Role   string
	Search string
	Limit  int
	Offset int
}

// ListUsers возвращает пользователей для админки с фильтром по роли
// и поиском по имени/email.
func (r *UserRepository) ListUsers(ctx context.Context, params UserListParams) ([]models.User, error) {
	var (
		conds = []string{"TRUE"}
		args  []interface{}
	)

	if params.Role != "" && params.Role != "all" {
		args = append(args, params.Role)
		conds = append(conds, fmt.Sprintf("role = $%d", len(args)))
	}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT `+userColumns+`
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conds, " AND "), len(args)-1, len(args))

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("user repository: list users %w", err)
	}
	return users, nil
}

// CreateSession сохраняет refresh сессию.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}
	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// ListSessions возвращает активные сессии пользователя.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT id, user_id, refresh_token, user_agent, ip_address, expires_at, created_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("user repository: list sessions %w", err)
	}
	return sessions, nil
}

// DeleteSessionByID удаляет конкретную сессию пользователя.
func (r *UserRepository) DeleteSessionByID(ctx context.Context, sessionID, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("user repository: delete session by id %w", err)
	}
	return nil
}
