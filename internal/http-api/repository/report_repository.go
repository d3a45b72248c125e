package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryCount is one row of a grouped-count report.
type CategoryCount struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}

// CategoryBreakdown splits unclaimed item counts per category by type.
type CategoryBreakdown struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	IconClass  string `json:"icon_class"`
	LostCount  int64  `json:"lost_count"`
	FoundCount int64  `json:"found_count"`
}

// HomeStats are the landing-page KPI totals over unclaimed items.
type HomeStats struct {
	TotalItems      int64               `json:"total_items"`
	TotalLostItems  int64               `json:"total_lost_items"`
	TotalFoundItems int64               `json:"total_found_items"`
	Categories      []CategoryBreakdown `json:"categories"`
}

// ReportRepository runs aggregation queries over the shared pgx pool.
type ReportRepository interface {
	FrequentLostItems(ctx context.Context, start, end time.Time) ([]CategoryCount, error)
	ClaimedItemsByCategory(ctx context.Context, start, end *time.Time) ([]CategoryCount, error)
	HomeStats(ctx context.Context) (*HomeStats, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) FrequentLostItems(ctx context.Context, start, end time.Time) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(i.id)
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.type = 'lost' AND i.date_reported >= $1 AND i.date_reported <= $2
		GROUP BY c.id, c.name
		ORDER BY COUNT(i.id) DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("frequent lost items: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *reportRepository) ClaimedItemsByCategory(ctx context.Context, start, end *time.Time) ([]CategoryCount, error) {
	q := `
		SELECT c.id, c.name, COUNT(i.id)
		FROM items i
		JOIN categories c ON c.id = i.category_id
		WHERE i.is_claimed = true`
	args := []interface{}{}
	if start != nil {
		args = append(args, *start)
		q += fmt.Sprintf(" AND i.claim_date >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		q += fmt.Sprintf(" AND i.claim_date <= $%d", len(args))
	}
	q += " GROUP BY c.id, c.name ORDER BY COUNT(i.id) DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("claimed items by category: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *reportRepository) HomeStats(ctx context.Context) (*HomeStats, error) {
	stats := &HomeStats{}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE type = 'lost'),
		       COUNT(*) FILTER (WHERE type = 'found')
		FROM items WHERE is_claimed = false`).
		Scan(&stats.TotalItems, &stats.TotalLostItems, &stats.TotalFoundItems)
	if err != nil {
		return nil, fmt.Errorf("home stat totals: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.icon_class,
		       COUNT(i.id) FILTER (WHERE i.type = 'lost'),
		       COUNT(i.id) FILTER (WHERE i.type = 'found')
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id AND i.is_claimed = false
		GROUP BY c.id, c.name, c.icon_class
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("home stat categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cb CategoryBreakdown
		if err := rows.Scan(&cb.CategoryID, &cb.Name, &cb.IconClass, &cb.LostCount, &cb.FoundCount); err != nil {
			return nil, fmt.Errorf("scan category breakdown: %w", err)
		}
		stats.Categories = append(stats.Categories, cb)
	}
	return stats, rows.Err()
}
