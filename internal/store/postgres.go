package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mjaramillo/weather-alert-api/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS notifications (
	id        SERIAL PRIMARY KEY,
	email     TEXT NOT NULL,
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	condition TEXT NOT NULL,
	code      INTEGER NOT NULL,
	sent_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_email ON notifications (email, sent_at DESC);
`

// PostgresStore is the persistent notification store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// Connect opens and verifies a database connection.
func Connect(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &PostgresStore{db: db}, nil
}

// EnsureSchema creates the notifications table and index if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save inserts the notification and returns it with its assigned ID.
func (s *PostgresStore) Save(ctx context.Context, n weather.Notification) (weather.Notification, error) {
	query := `
		INSERT INTO notifications (email, latitude, longitude, condition, code, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		n.Email, n.Latitude, n.Longitude, n.Condition, n.Code, n.SentAt,
	).Scan(&n.ID)
	if err != nil {
		return weather.Notification{}, err
	}
	return n, nil
}

// FindByEmail returns all notifications for an email, newest first.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) ([]weather.Notification, error) {
	query := `
		SELECT id, email, latitude, longitude, condition, code, sent_at
		FROM notifications
		WHERE email = $1
		ORDER BY sent_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// FindAll returns every stored notification, newest first.
func (s *PostgresStore) FindAll(ctx context.Context) ([]weather.Notification, error) {
	query := `
		SELECT id, email, latitude, longitude, condition, code, sent_at
		FROM notifications
		ORDER BY sent_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func scanNotifications(rows *sql.Rows) ([]weather.Notification, error) {
	notifications := []weather.Notification{}
	for rows.Next() {
		var n weather.Notification
		if err := rows.Scan(
			&n.ID,
			&n.Email,
			&n.Latitude,
			&n.Longitude,
			&n.Condition,
			&n.Code,
			&n.SentAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
