package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStaticTable(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		target    string
		wantRate  float64
		wantFound bool
	}{
		{name: "eur to chf", base: "EUR", target: "CHF", wantRate: 0.97, wantFound: true},
		{name: "usd to eur", base: "USD", target: "EUR", wantRate: 0.93, wantFound: true},
		{name: "lowercase codes", base: "eur", target: "chf", wantRate: 0.97, wantFound: true},
		{name: "unknown base", base: "GBP", target: "EUR", wantFound: false},
		{name: "unknown target", base: "EUR", target: "JPY", wantFound: false},
	}

	table := NewStaticTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, found, err := table.Rate(context.Background(), "2024-01-01", tt.base, tt.target)
			if err != nil {
				t.Fatalf("Rate() error = %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("Rate() found = %v, want %v", found, tt.wantFound)
			}
			if found && rate != tt.wantRate {
				t.Errorf("Rate() = %v, want %v", rate, tt.wantRate)
			}
		})
	}
}

func TestAPIClient_Rate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","conversion_rates":{"CHF":0.97,"USD":1.08}}`))
	}))
	defer srv.Close()

	c := NewAPIClient("testkey", time.Second).WithBaseURL(srv.URL)

	rate, found, err := c.Rate(context.Background(), "2024-03-05", "eur", "chf")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if !found || rate != 0.97 {
		t.Errorf("Rate() = %v, %v, want 0.97, true", rate, found)
	}

	wantPath := "/v6/testkey/history/EUR/2024/03/05"
	if gotPath != wantPath {
		t.Errorf("request path = %q, want %q", gotPath, wantPath)
	}
}

func TestAPIClient_TargetNotListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","conversion_rates":{"USD":1.08}}`))
	}))
	defer srv.Close()

	c := NewAPIClient("testkey", time.Second).WithBaseURL(srv.URL)

	_, found, err := c.Rate(context.Background(), "2024-01-01", "EUR", "JPY")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if found {
		t.Error("Rate() found = true for unlisted target")
	}
}

func TestAPIClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		date    string
		key     string
		wantErr error
	}{
		{name: "missing api key", status: 200, body: `{}`, date: "2024-01-01", key: "", wantErr: ErrNotConfigured},
		{name: "http error status", status: 403, body: `{}`, date: "2024-01-01", key: "k"},
		{name: "empty conversion rates", status: 200, body: `{"result":"success"}`, date: "2024-01-01", key: "k"},
		{name: "invalid json", status: 200, body: `{{{`, date: "2024-01-01", key: "k"},
		{name: "malformed date", status: 200, body: `{}`, date: "garbage", key: "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewAPIClient(tt.key, time.Second).WithBaseURL(srv.URL)
			_, _, err := c.Rate(context.Background(), tt.date, "EUR", "CHF")
			if err == nil {
				t.Fatal("Rate() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Rate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// stubProvider records calls and returns canned values.
type stubProvider struct {
	rate  float64
	found bool
	err   error
	calls int
}

func (s *stubProvider) Rate(context.Context, string, string, string) (float64, bool, error) {
	s.calls++
	return s.rate, s.found, s.err
}

func TestFallback_PrimaryHealthy(t *testing.T) {
	primary := &stubProvider{rate: 0.95, found: true}
	secondary := &stubProvider{rate: 0.97, found: true}
	f := NewFallback(primary, secondary)

	rate, found, err := f.Rate(context.Background(), "2024-01-01", "EUR", "CHF")
	if err != nil || !found || rate != 0.95 {
		t.Errorf("Rate() = %v, %v, %v, want 0.95, true, nil", rate, found, err)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary consulted %d times, want 0", secondary.calls)
	}
}

func TestFallback_PrimaryMissIsNotFailure(t *testing.T) {
	// found=false from a healthy primary means "no rate", not "retry
	// elsewhere".
	primary := &stubProvider{found: false}
	secondary := &stubProvider{rate: 0.97, found: true}
	f := NewFallback(primary, secondary)

	_, found, err := f.Rate(context.Background(), "2024-01-01", "EUR", "CHF")
	if err != nil || found {
		t.Errorf("Rate() = found %v, err %v, want false, nil", found, err)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary consulted %d times, want 0", secondary.calls)
	}
}

func TestFallback_PrimaryError(t *testing.T) {
	primary := &stubProvider{err: errors.New("connection refused")}
	secondary := &stubProvider{rate: 0.97, found: true}
	f := NewFallback(primary, secondary)

	rate, found, err := f.Rate(context.Background(), "2024-01-01", "EUR", "CHF")
	if err != nil || !found || rate != 0.97 {
		t.Errorf("Rate() = %v, %v, %v, want 0.97, true, nil", rate, found, err)
	}
}

func TestFallback_NotConfiguredFallsBack(t *testing.T) {
	f := NewFallback(NewAPIClient("", time.Second), NewStaticTable())

	rate, found, err := f.Rate(context.Background(), "2024-01-01", "EUR", "CHF")
	if err != nil || !found || rate != 0.97 {
		t.Errorf("Rate() = %v, %v, %v, want static 0.97, true, nil", rate, found, err)
	}
}

func TestFallback_BothFail(t *testing.T) {
	primary := &stubProvider{err: errors.New("down")}
	secondary := &stubProvider{err: errors.New("also down")}
	f := NewFallback(primary, secondary)

	_, _, err := f.Rate(context.Background(), "2024-01-01", "EUR", "CHF")
	if err == nil {
		t.Error("Rate() error = nil, want secondary's error")
	}
}
