package weather

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjaramillo/weather-alert-api/internal/observability"
)

// --- mocks ---

type mockProvider struct {
	forecast Forecast
	err      error
	calls    int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Fetch(_ context.Context, lat, lon float64) (Forecast, error) {
	m.calls++
	if m.err != nil {
		return Forecast{}, m.err
	}
	f := m.forecast
	f.Latitude = lat
	f.Longitude = lon
	return f, nil
}

type mockMailer struct {
	err      error
	calls    int
	lastTo   string
	lastSubj string
	lastBody string
}

func (m *mockMailer) Send(to, subject, body string) error {
	m.calls++
	m.lastTo = to
	m.lastSubj = subject
	m.lastBody = body
	return m.err
}

type mockStore struct {
	saveErr error
	findErr error
	saved   []Notification
	found   []Notification
	calls   int
}

func (m *mockStore) Save(_ context.Context, n Notification) (Notification, error) {
	m.calls++
	if m.saveErr != nil {
		return Notification{}, m.saveErr
	}
	n.ID = int64(len(m.saved) + 1)
	m.saved = append(m.saved, n)
	return n, nil
}

func (m *mockStore) FindByEmail(_ context.Context, email string) ([]Notification, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.found, nil
}

func (m *mockStore) FindAll(_ context.Context) ([]Notification, error) {
	return m.found, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func newTestService(st *mockStore, p *mockProvider, m *mockMailer) *Service {
	return NewService(st, p, m, observability.NewMetricsForTesting())
}

// --- CheckWeather ---

func TestCheckWeather_InvalidRequestSkipsCollaborators(t *testing.T) {
	provider := &mockProvider{}
	mailer := &mockMailer{}
	st := &mockStore{}
	svc := newTestService(st, provider, mailer)

	_, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  91,
		Longitude: 0,
		Email:     "test@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "latitude out of range")
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 0, mailer.calls)
	assert.Equal(t, 0, st.calls)
}

func TestCheckWeather_NonAdverseSkipsAlert(t *testing.T) {
	provider := &mockProvider{forecast: Forecast{
		Location:      "Manizales, Colombia",
		TemperatureC:  25,
		Condition:     "Sunny",
		ConditionCode: 1000,
		Humidity:      intPtr(40),
		WindKph:       floatPtr(10),
	}}
	mailer := &mockMailer{}
	st := &mockStore{}
	svc := newTestService(st, provider, mailer)

	result, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  5.07,
		Longitude: -75.52,
		Email:     "test@example.com",
	})

	require.NoError(t, err)
	assert.False(t, result.AdverseWeather)
	assert.False(t, result.AlertSent)
	assert.Equal(t, "no alert required", result.Message)
	assert.Equal(t, "Manizales, Colombia", result.Location)
	assert.Contains(t, result.Forecast, "Sunny")
	assert.Equal(t, 0, mailer.calls)
	assert.Equal(t, 0, st.calls)
}

func TestCheckWeather_AdverseSendsAlertAndPersists(t *testing.T) {
	provider := &mockProvider{forecast: Forecast{
		Location:      "Manizales, Colombia",
		TemperatureC:  20,
		Condition:     "Heavy Rain",
		ConditionCode: 1195,
		Humidity:      intPtr(90),
		WindKph:       floatPtr(30),
	}}
	mailer := &mockMailer{}
	st := &mockStore{}
	svc := newTestService(st, provider, mailer)

	frozen := time.Date(2025, 4, 7, 18, 30, 0, 0, time.UTC)
	svc.setClock(clockwork.NewFakeClockAt(frozen))

	result, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  5.07,
		Longitude: -75.52,
		Email:     "test@example.com",
	})

	require.NoError(t, err)
	assert.True(t, result.AdverseWeather)
	assert.True(t, result.AlertSent)
	assert.Equal(t, "alert sent due to adverse weather conditions", result.Message)

	require.Equal(t, 1, mailer.calls)
	assert.Equal(t, "test@example.com", mailer.lastTo)
	assert.Equal(t, "Weather Alert - Heavy Rain", mailer.lastSubj)
	assert.Contains(t, mailer.lastBody, "Manizales, Colombia")
	assert.Contains(t, mailer.lastBody, "20.0°C")
	assert.Contains(t, mailer.lastBody, "Humidity: 90%")
	assert.Contains(t, mailer.lastBody, "Wind: 30.0 km/h")

	require.Equal(t, 1, st.calls)
	require.Len(t, st.saved, 1)
	saved := st.saved[0]
	assert.Equal(t, "test@example.com", saved.Email)
	assert.Equal(t, 1195, saved.Code)
	assert.Equal(t, "Heavy Rain", saved.Condition)
	assert.Equal(t, 5.07, saved.Latitude)
	assert.Equal(t, -75.52, saved.Longitude)
	assert.Equal(t, frozen, saved.SentAt)
}

func TestCheckWeather_AlertBodyContainsFormattedTimestamp(t *testing.T) {
	provider := &mockProvider{forecast: Forecast{
		Location:      "Bergen, Norway",
		Condition:     "Blizzard",
		ConditionCode: 1117,
	}}
	mailer := &mockMailer{}
	svc := newTestService(&mockStore{}, provider, mailer)

	frozen := time.Date(2025, 12, 24, 9, 5, 1, 0, time.UTC)
	svc.setClock(clockwork.NewFakeClockAt(frozen))

	_, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  60.39,
		Longitude: 5.32,
		Email:     "ops@example.com",
	})

	require.NoError(t, err)
	assert.Contains(t, mailer.lastBody, "Date: 2025-12-24 09:05:01")
}

func TestCheckWeather_ProviderFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	mailer := &mockMailer{}
	st := &mockStore{}
	svc := newTestService(st, provider, mailer)

	_, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  5.07,
		Longitude: -75.52,
		Email:     "test@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForecastUnavailable)
	assert.Equal(t, 0, mailer.calls)
	assert.Equal(t, 0, st.calls)
}

func TestCheckWeather_MailFailurePreventsPersistence(t *testing.T) {
	provider := &mockProvider{forecast: Forecast{
		Location:      "Manizales, Colombia",
		Condition:     "Heavy Rain",
		ConditionCode: 1195,
	}}
	mailer := &mockMailer{err: errors.New("relay refused")}
	st := &mockStore{}
	svc := newTestService(st, provider, mailer)

	_, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  5.07,
		Longitude: -75.52,
		Email:     "test@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlertDelivery)
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, 0, st.calls, "a failed send must never be persisted")
}

func TestCheckWeather_StoreFailureAfterSend(t *testing.T) {
	provider := &mockProvider{forecast: Forecast{
		Location:      "Manizales, Colombia",
		Condition:     "Heavy Rain",
		ConditionCode: 1195,
	}}
	mailer := &mockMailer{}
	st := &mockStore{saveErr: errors.New("disk full")}
	svc := newTestService(st, provider, mailer)

	_, err := svc.CheckWeather(context.Background(), Request{
		Latitude:  5.07,
		Longitude: -75.52,
		Email:     "test@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 1, mailer.calls, "alert was already sent when the store failed")
}

// --- GetNotifications ---

func TestGetNotifications_InvalidEmail(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, &mockProvider{}, &mockMailer{})

	_, err := svc.GetNotifications(context.Background(), "not-an-email")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetNotifications_FormatsSentAt(t *testing.T) {
	st := &mockStore{found: []Notification{
		{ID: 2, Email: "test@example.com", Latitude: 5.07, Longitude: -75.52, Condition: "Heavy Rain", Code: 1195, SentAt: time.Date(2025, 4, 8, 10, 0, 0, 0, time.UTC)},
		{ID: 1, Email: "test@example.com", Latitude: 5.07, Longitude: -75.52, Condition: "Fog", Code: 1135, SentAt: time.Date(2025, 4, 7, 18, 30, 0, 0, time.UTC)},
	}}
	svc := newTestService(st, &mockProvider{}, &mockMailer{})

	views, err := svc.GetNotifications(context.Background(), "test@example.com")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "2025-04-08 10:00:00", views[0].SentAt)
	assert.Equal(t, "2025-04-07 18:30:00", views[1].SentAt)
	assert.Equal(t, 1195, views[0].Code)
	assert.Equal(t, "Fog", views[1].Condition)

	for _, v := range views {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, v.SentAt)
	}
}

func TestGetNotifications_EmptyHistoryIsNotAnError(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, &mockProvider{}, &mockMailer{})

	views, err := svc.GetNotifications(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetNotifications_StoreFailure(t *testing.T) {
	st := &mockStore{findErr: errors.New("connection reset")}
	svc := newTestService(st, &mockProvider{}, &mockMailer{})

	_, err := svc.GetNotifications(context.Background(), "test@example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestComposeAlert_SubjectIncludesCondition(t *testing.T) {
	subject, body, err := composeAlert(Forecast{
		Location:     "Oslo, Norway",
		Condition:    "Moderate snow",
		TemperatureC: -4,
		ForecastDate: time.Date(2025, 1, 15, 7, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "Weather Alert - Moderate snow", subject)
	assert.True(t, strings.HasPrefix(body, "An adverse weather condition"))
	assert.Contains(t, body, "Date: 2025-01-15 07:00:00")
}
