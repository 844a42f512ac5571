package weather

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/template"

	"github.com/jonboulle/clockwork"

	"github.com/mjaramillo/weather-alert-api/internal/observability"
)

// alertBodyTemplate renders the plain-text alert email.
var alertBodyTemplate = template.Must(template.New("alert").Parse(`An adverse weather condition has been detected at your location:

Location: {{.Location}}
Temperature: {{printf "%.1f" .TemperatureC}}°C
Condition: {{.Condition}}
Humidity: {{.Humidity}}%
Wind: {{.Wind}} km/h

Please take the necessary precautions.

Date: {{.Date}}

---
Weather Alert API
`))

// Service orchestrates weather checks and notification queries over the
// injected collaborators. It holds no mutable state across requests.
type Service struct {
	store    NotificationStore
	provider Provider
	mailer   Mailer
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// NewService creates a Service. All collaborators are required.
func NewService(store NotificationStore, provider Provider, mailer Mailer, metrics *observability.Metrics) *Service {
	return &Service{
		store:    store,
		provider: provider,
		mailer:   mailer,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
}

// CheckWeather validates the request, fetches and classifies the forecast,
// and on adverse conditions sends an alert email and then persists a
// notification. A failed send prevents persistence: a stored record implies
// the alert actually went out. No collaborator call is retried.
func (s *Service) CheckWeather(ctx context.Context, req Request) (CheckResult, error) {
	s.metrics.ChecksTotal.Inc()

	if ok, reason := req.Validate(); !ok {
		return CheckResult{}, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}

	start := s.clock.Now()
	forecast, err := s.provider.Fetch(ctx, req.Latitude, req.Longitude)
	s.metrics.ProviderDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.ProviderErrors.Inc()
		return CheckResult{}, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}

	forecast.IsAdverse = IsAdverse(forecast.ConditionCode)
	if forecast.ForecastDate.IsZero() {
		forecast.ForecastDate = s.clock.Now()
	}

	result := CheckResult{
		Forecast:       forecast.Description(),
		Location:       forecast.Location,
		AdverseWeather: forecast.IsAdverse,
	}

	if !forecast.IsAdverse {
		result.AlertSent = false
		result.Message = "no alert required"
		return result, nil
	}

	subject, body, err := composeAlert(forecast)
	if err != nil {
		return CheckResult{}, fmt.Errorf("%w: %v", ErrAlertDelivery, err)
	}

	if err := s.mailer.Send(req.Email, subject, body); err != nil {
		s.metrics.MailErrors.Inc()
		return CheckResult{}, fmt.Errorf("%w: %v", ErrAlertDelivery, err)
	}

	notification := Notification{
		Email:     req.Email,
		Latitude:  forecast.Latitude,
		Longitude: forecast.Longitude,
		Condition: forecast.Condition,
		Code:      forecast.ConditionCode,
		SentAt:    s.clock.Now(),
	}
	if _, err := s.store.Save(ctx, notification); err != nil {
		// Known inconsistency window: the alert went out but the record is
		// lost. Surfaced to the caller, never silently retried.
		s.metrics.StoreErrors.Inc()
		return CheckResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.metrics.AlertsSent.Inc()
	log.Printf("alert sent to %s for %s (code %d)", req.Email, forecast.Location, forecast.ConditionCode)

	result.AlertSent = true
	result.Message = "alert sent due to adverse weather conditions"
	return result, nil
}

// GetNotifications validates the email and returns the stored history,
// newest first. An empty history is a valid, non-error result.
func (s *Service) GetNotifications(ctx context.Context, email string) ([]NotificationView, error) {
	s.metrics.NotificationQueries.Inc()

	if ok, reason := (Request{Email: email}).Validate(); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
	}

	notifications, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.StoreErrors.Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, NotificationView{
			SentAt:    n.SentAt.Format(timestampLayout),
			Latitude:  n.Latitude,
			Longitude: n.Longitude,
			Condition: n.Condition,
			Code:      n.Code,
		})
	}
	return views, nil
}

func composeAlert(f Forecast) (subject, body string, err error) {
	subject = fmt.Sprintf("Weather Alert - %s", f.Condition)

	data := struct {
		Location     string
		TemperatureC float64
		Condition    string
		Humidity     string
		Wind         string
		Date         string
	}{
		Location:     f.Location,
		TemperatureC: f.TemperatureC,
		Condition:    f.Condition,
		Humidity:     formatIntPtr(f.Humidity),
		Wind:         formatFloatPtr(f.WindKph),
		Date:         f.ForecastDate.Format(timestampLayout),
	}

	var buf bytes.Buffer
	if err := alertBodyTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}

// setClock swaps the time source; tests use it to freeze sent_at timestamps.
func (s *Service) setClock(c clockwork.Clock) {
	s.clock = c
}
