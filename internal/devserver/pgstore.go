package devserver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/blackpearl/shipyard-console/models"
)

// PGStore serves the read-heavy pieces of the dev server — user lookup and
// summary aggregation — from Postgres, for teams that point the dev server at
// a shared seed database.
type PGStore struct {
	db *sql.DB
}

// OpenPostgres connects to the given DSN and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PGStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PGStore{db: db}, nil
}

// NewPGStore wraps an existing handle; used by tests.
func NewPGStore(db *sql.DB) *PGStore { return &PGStore{db: db} }

// Close releases the connection pool.
func (s *PGStore) Close() error { return s.db.Close() }

// UserByEmail fetches one account record.
func (s *PGStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, department, role, active
		 FROM users WHERE email = $1`, email)

	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Department, &u.Role, &u.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

// ListUsers fetches all account records.
func (s *PGStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, department, role, active
		 FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Department, &u.Role, &u.Active); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Summary aggregates the dashboard counters with one query per widget
// group.
func (s *PGStore) Summary(ctx context.Context) (*models.Summary, error) {
	summary := &models.Summary{OrdersByStatus: make(map[string]int64)}

	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM ship_orders),
			(SELECT COUNT(*) FROM tenders WHERE status = 'OPEN'),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'COMPLETED')`)
	if err := row.Scan(&summary.TotalUsers, &summary.TotalOrders, &summary.ActiveTenders, &summary.TotalRevenue); err != nil {
		return nil, fmt.Errorf("aggregate counters: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date_trunc('month', created_at), 'Mon') AS month,
		       SUM(amount) AS revenue
		FROM payments
		WHERE status = 'COMPLETED'
		  AND created_at >= date_trunc('month', now()) - INTERVAL '5 months'
		GROUP BY date_trunc('month', created_at)
		ORDER BY date_trunc('month', created_at)`)
	if err != nil {
		return nil, fmt.Errorf("aggregate revenue: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.MonthRevenue
		if err := rows.Scan(&m.Month, &m.Revenue); err != nil {
			return nil, fmt.Errorf("scan revenue row: %w", err)
		}
		summary.RevenueByMonth = append(summary.RevenueByMonth, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM ship_orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("aggregate order status: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int64
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status row: %w", err)
		}
		summary.OrdersByStatus[status] = count
	}
	return summary, statusRows.Err()
}

// WithPostgres overlays pg-backed reads on top of a base store. All writes
// and the remaining reads keep going to base.
func WithPostgres(base Store, pg *PGStore) Store {
	return &pgOverlay{Store: base, pg: pg}
}

type pgOverlay struct {
	Store
	pg *PGStore
}

func (o *pgOverlay) Summary(ctx context.Context) (*models.Summary, error) {
	return o.pg.Summary(ctx)
}

func (o *pgOverlay) ListUsers(ctx context.Context) ([]models.User, error) {
	return o.pg.ListUsers(ctx)
}

func (o *pgOverlay) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return o.pg.UserByEmail(ctx, email)
}
