package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"currency-converter/internal/config"
	"currency-converter/internal/core"
	"currency-converter/internal/rates"
)

// newTestServer builds a Server backed by the static rate table.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = time.Minute
	cfg.Convert.MaxFileSize = 1 << 20
	cfg.Rate.Enabled = false

	service := core.NewService(rates.NewStaticTable(), core.ServiceOptions{})
	return NewServer(service, cfg)
}

// multipartUpload builds a conversion request body.
func multipartUpload(t *testing.T, csvData, base, target string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if csvData != "" {
		fw, err := w.CreateFormFile("csv_file", "upload.csv")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(csvData))
	}
	if base != "" {
		w.WriteField("baseCurrency", base)
	}
	if target != "" {
		w.WriteField("targetCurrency", target)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func postConvert(t *testing.T, s *Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/convert", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleConvert_Success(t *testing.T) {
	s := newTestServer(t)

	body, ct := multipartUpload(t, "date;amount\n2024-01-01;100\ninvalid;50\n", "EUR", "CHF")
	rec := postConvert(t, s, body, ct)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp convertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false, want true")
	}
	if resp.Stats == nil {
		t.Fatal("stats missing from response")
	}
	if resp.Stats.TotalRows != 2 || resp.Stats.SuccessfulConversions != 1 || resp.Stats.FailedConversions != 1 {
		t.Errorf("stats = %+v, want total=2 success=1 failed=1", resp.Stats)
	}
	if resp.DownloadToken == "" {
		t.Error("downloadToken missing from response")
	}
}

func TestHandleConvert_DownloadFlow(t *testing.T) {
	s := newTestServer(t)

	body, ct := multipartUpload(t, "date;amount\n2024-01-01;100\n", "EUR", "CHF")
	rec := postConvert(t, s, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d", rec.Code)
	}

	var resp convertResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)

	req := httptest.NewRequest(http.MethodGet, "/download/"+resp.DownloadToken, nil)
	dl := httptest.NewRecorder()
	s.Router().ServeHTTP(dl, req)

	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if cd := dl.Header().Get("Content-Disposition"); !strings.Contains(cd, "converted_currency.csv") {
		t.Errorf("Content-Disposition = %q, want attachment name", cd)
	}
	if !strings.Contains(dl.Body.String(), "97,00") {
		t.Errorf("download body = %q, want converted amount", dl.Body.String())
	}

	// The artifact is single-use.
	again := httptest.NewRecorder()
	s.Router().ServeHTTP(again, httptest.NewRequest(http.MethodGet, "/download/"+resp.DownloadToken, nil))
	if again.Code != http.StatusNotFound {
		t.Errorf("second download status = %d, want 404", again.Code)
	}
}

func TestHandleConvert_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		base    string
		target  string
		message string
	}{
		{
			name:    "missing file",
			csv:     "",
			base:    "EUR",
			target:  "CHF",
			message: "no CSV file",
		},
		{
			name:    "missing currencies",
			csv:     "date;amount\n2024-01-01;100\n",
			message: "required",
		},
		{
			name:    "missing date column",
			csv:     "when;amount\n2024-01-01;100\n",
			base:    "EUR",
			target:  "CHF",
			message: "date",
		},
		{
			name:    "no convertible rows",
			csv:     "date;amount\nbad;worse\n",
			base:    "EUR",
			target:  "CHF",
			message: "No rows were successfully converted",
		},
		{
			name:    "unknown currency pair",
			csv:     "date;amount\n2024-01-01;100\n",
			base:    "EUR",
			target:  "JPY",
			message: "No rows were successfully converted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			body, ct := multipartUpload(t, tt.csv, tt.base, tt.target)
			rec := postConvert(t, s, body, ct)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body)
			}

			var resp convertResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Success {
				t.Error("success = true, want false")
			}
			if resp.Type != "VALIDATION_ERROR" {
				t.Errorf("type = %q, want VALIDATION_ERROR", resp.Type)
			}
			if !strings.Contains(resp.Message, tt.message) {
				t.Errorf("message = %q, want it to contain %q", resp.Message, tt.message)
			}
		})
	}
}

func TestHandleDownload_UnknownToken(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/not-a-token", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}
