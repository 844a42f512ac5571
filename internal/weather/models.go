package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Request carries the input of a weather check: the coordinate pair to
// inspect and the email to alert if conditions turn out adverse.
type Request struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Email     string  `json:"email"`
}

// Validate checks the request structurally. Rules are applied in order and
// the first failure wins. It has no side effects.
func (r Request) Validate() (bool, string) {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return false, "invalid email"
	}
	if math.IsNaN(r.Latitude) || math.IsInf(r.Latitude, 0) ||
		math.IsNaN(r.Longitude) || math.IsInf(r.Longitude, 0) {
		return false, "latitude and longitude must be numbers"
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return false, "latitude out of range"
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return false, "longitude out of range"
	}
	return true, ""
}

// Forecast is one snapshot of current conditions for a coordinate, as
// returned by the provider. It is never persisted.
type Forecast struct {
	Location      string
	Latitude      float64
	Longitude     float64
	TemperatureC  float64
	Condition     string
	ConditionCode int
	IsAdverse     bool
	ForecastDate  time.Time

	// Optional readings; nil when the provider omits them.
	Humidity *int
	WindKph  *float64
}

// Description renders a human-readable composite of the forecast.
func (f Forecast) Description() string {
	return fmt.Sprintf("%s with %.1f°C in %s. Humidity: %s%%, Wind: %s km/h",
		f.Condition, f.TemperatureC, f.Location, formatIntPtr(f.Humidity), formatFloatPtr(f.WindKph))
}

func formatIntPtr(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}

// Notification records that an adverse-weather alert was sent to an email
// for a given forecast. ID is zero until the store assigns one and is
// immutable afterward; notifications are never updated or deleted.
type Notification struct {
	ID        int64
	Email     string
	Latitude  float64
	Longitude float64
	Condition string
	Code      int
	SentAt    time.Time
}

// CheckResult is the outcome of a weather check.
type CheckResult struct {
	Forecast       string `json:"forecast"`
	Location       string `json:"location"`
	AdverseWeather bool   `json:"adverse_weather"`
	AlertSent      bool   `json:"alert_sent"`
	Message        string `json:"message"`
}

// NotificationView is the query-facing projection of a stored notification,
// with sent_at rendered as "YYYY-MM-DD HH:MM:SS".
type NotificationView struct {
	SentAt    string  `json:"sent_at"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Condition string  `json:"condition"`
	Code      int     `json:"code"`
}

// timestampLayout is the wire format for sent_at and alert timestamps.
const timestampLayout = "2006-01-02 15:04:05"
