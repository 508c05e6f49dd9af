package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/handyman-backend/internal/models"
)

// DashboardStats — ключевые метрики админской панели.
type DashboardStats struct {
	TotalCustomers    int     `db:"total_customers" json:"total_customers"`
	TotalHandymen     int     `db:"total_handymen" json:"total_handymen"`
	TotalBookings     int     `db:"total_bookings" json:"total_bookings"`
	CompletedBookings int     `db:"completed_bookings" json:"completed_bookings"`
	TotalRevenue      float64 `db:"total_revenue" json:"total_revenue"`
	PendingEarnings   float64 `db:"pending_earnings" json:"pending_earnings"`
}

// MonthlyStat — строка помесячной статистики завершённых заявок.
type MonthlyStat struct {
	Month         string  `db:"month" json:"month"`
	TotalBookings int     `db:"total_bookings" json:"total_bookings"`
	TotalRevenue  float64 `db:"total_revenue" json:"total_revenue"`
}

// PopularSkill — услуга с числом заявок.
type PopularSkill struct {
	models.Skill
	BookingsCount int `db:"bookings_count" json:"bookings_count"`
}

// TopHandyman — мастер с суммой заработанного.
type TopHandyman struct {
	models.HandymanSearchResult
	TotalEarnings float64 `db:"total_earnings" json:"total_earnings"`
}

// ReportRepository — read-only агрегаты для админской отчётности.
// Никаких собственных инвариантов: чистые SQL-запросы.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetDashboardStats возвращает сводные метрики платформы.
func (r *ReportRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'customer')                              AS total_customers,
			(SELECT COUNT(*) FROM users WHERE role = 'handyman')                              AS total_handymen,
			(SELECT COUNT(*) FROM bookings)                                                   AS total_bookings,
			(SELECT COUNT(*) FROM bookings WHERE status = 'completed')                        AS completed_bookings,
			(SELECT COALESCE(SUM(platform_fee), 0) FROM earnings)                             AS total_revenue,
			(SELECT COALESCE(SUM(net_amount), 0) FROM earnings WHERE status = 'pending')      AS pending_earnings
	`)
	if err != nil {
		return nil, fmt.Errorf("report repository: dashboard stats %w", err)
	}
	return &stats, nil
}

// GetMonthlyStats возвращает выручку по месяцам для завершённых заявок.
func (r *ReportRepository) GetMonthlyStats(ctx context.Context, months int) ([]MonthlyStat, error) {
	var stats []MonthlyStat
	err := r.db.SelectContext(ctx, &stats, `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COUNT(*)                       AS total_bookings,
		       COALESCE(SUM(total_amount), 0) AS total_revenue
		FROM bookings
		WHERE status = 'completed'
		GROUP BY month
		ORDER BY month DESC
		LIMIT $1
	`, months)
	if err != nil {
		return nil, fmt.Errorf("report repository: monthly stats %w", err)
	}
	return stats, nil
}

// GetPopularSkills возвращает услуги, отсортированные по числу заявок.
func (r *ReportRepository) GetPopularSkills(ctx context.Context, limit int) ([]PopularSkill, error) {
	var skills []PopularSkill
	err := r.db.SelectContext(ctx, &skills, `
		SELECT s.id, s.name, s.description, s.icon, s.base_rate, s.is_active, s.created_at, s.updated_at,
		       COUNT(b.id) AS bookings_count
		FROM skills s
		LEFT JOIN bookings b ON b.skill_id = s.id
		GROUP BY s.id
		ORDER BY bookings_count DESC, s.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("report repository: popular skills %w", err)
	}
	return skills, nil
}

// GetTopHandymen возвращает мастеров с наибольшей суммой выплат.
func (r *ReportRepository) GetTopHandymen(ctx context.Context, limit int) ([]TopHandyman, error) {
	var handymen []TopHandyman
	err := r.db.SelectContext(ctx, &handymen, `
		SELECT u.id, u.name, u.location, u.bio, u.rating, u.total_reviews, u.is_verified, u.created_at,
		       COALESCE(SUM(e.net_amount), 0) AS total_earnings
		FROM users u
		LEFT JOIN earnings e ON e.handyman_id = u.id
		WHERE u.role = 'handyman'
		GROUP BY u.id
		ORDER BY total_earnings DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("report repository: top handymen %w", err)
	}
	return handymen, nil
}
