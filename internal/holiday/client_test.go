package holiday

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/drivedesk-api/pkg/config"
)

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestPublicHolidaysFiltersToRange(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, `[
		{"date":"2024-01-01","localName":"Neujahrstag","name":"New Year's Day"},
		{"date":"2024-05-01","localName":"Tag der Arbeit","name":"Labour Day"},
		{"date":"2024-12-25","localName":"Erster Weihnachtstag","name":"Christmas Day"}
	]`)
	defer server.Close()

	client := New(config.HolidayConfig{BaseURL: server.URL, Region: "DE"}, nil, nil)
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	days, err := client.PublicHolidays(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), days[0])
}

func TestPublicHolidaysSpansYears(t *testing.T) {
	var requestedYears []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedYears = append(requestedYears, r.URL.Path)
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := New(config.HolidayConfig{BaseURL: server.URL, Region: "DE"}, nil, nil)
	from := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	_, err := client.PublicHolidays(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/api/v3/PublicHolidays/2024/DE",
		"/api/v3/PublicHolidays/2025/DE",
	}, requestedYears)
}

func TestPublicHolidaysSurfacesFeedErrors(t *testing.T) {
	server := newFeedServer(t, http.StatusBadGateway, `upstream down`)
	defer server.Close()

	client := New(config.HolidayConfig{BaseURL: server.URL, Region: "DE"}, nil, nil)
	_, err := client.PublicHolidays(context.Background(), time.Now(), time.Now())
	assert.Error(t, err)
}

func TestPublicHolidaysSkipsMalformedDates(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, `[
		{"date":"not-a-date","localName":"Broken","name":"Broken"},
		{"date":"2024-05-01","localName":"Tag der Arbeit","name":"Labour Day"}
	]`)
	defer server.Close()

	client := New(config.HolidayConfig{BaseURL: server.URL, Region: "DE"}, nil, nil)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	days, err := client.PublicHolidays(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, days, 1)
}
