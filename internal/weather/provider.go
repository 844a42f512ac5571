package weather

import "context"

// Provider abstracts the external weather data source (e.g. WeatherAPI.com).
// Fetch returns current conditions for a coordinate pair; the adverse flag is
// left for the caller to classify.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (Forecast, error)
}

// Mailer abstracts plain-text email transmission.
type Mailer interface {
	Send(to, subject, body string) error
}

// NotificationStore is the contract any notification store must satisfy.
type NotificationStore interface {
	// Save persists the notification and returns it with its assigned ID.
	Save(ctx context.Context, n Notification) (Notification, error)
	// FindByEmail returns all notifications for an email, newest first.
	FindByEmail(ctx context.Context, email string) ([]Notification, error)
	// FindAll returns every stored notification, newest first.
	FindAll(ctx context.Context) ([]Notification, error)
}
