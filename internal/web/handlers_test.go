package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/config"
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"

	_ "github.com/ChaDonSom/Crew-Console-API-Testing/internal/core/kinds"
)

// stubService is a canned RecordService for handler tests.
type stubService struct {
	companyID   int64
	users       []core.ExistingUser
	submitCalls int
}

func (s *stubService) ResolveCompanyID(ctx context.Context) (int64, error) {
	return s.companyID, nil
}

func (s *stubService) FindOrCreateCompanyByName(ctx context.Context, name string, companyID int64) (int64, error) {
	return 1, nil
}

func (s *stubService) ListUsers(ctx context.Context) ([]core.ExistingUser, error) {
	return s.users, nil
}

func (s *stubService) Submit(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	s.submitCalls++
	return json.RawMessage(fmt.Sprintf(`{"id":%d}`, s.submitCalls)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			RequestTimeout: time.Minute,
		},
		Upload: config.UploadConfig{
			MaxBodySize: 1 << 20,
			MaxRows:     10,
		},
		Rate: config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(svc core.RecordService) *Server {
	return NewServer(svc, testConfig())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestImportCustomers_JSONRows(t *testing.T) {
	svc := &stubService{companyID: 7}
	srv := newTestServer(svc)

	body := `{"rows":[
		{"Name First and Last":"Ada Lovelace","Email":"ada@example.com"},
		{"Name First and Last":""}
	]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result core.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.OK)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, 1, result.Summary.ValidationErrors)
	assert.Equal(t, int64(7), result.Summary.BaseAccountIDUsed)

	require.Len(t, result.Results, 2)
	assert.Equal(t, 0, result.Results[0].Index)
	assert.Equal(t, 1, result.Results[1].Index)
	assert.Equal(t, 1, svc.submitCalls)
}

func TestImportCustomers_NumericCells(t *testing.T) {
	svc := &stubService{companyID: 7}
	srv := newTestServer(svc)

	// JSON numbers and booleans are stringified like spreadsheet cells.
	body := `{"rows":[{"Name First and Last":"Ada","Phone":5550104477}]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, svc.submitCalls)
}

func TestImport_MissingRows(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	for _, body := range []string{`{}`, `{"rows":[]}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/crew/customers", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestImport_InvalidJSON(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/customers", strings.NewReader(`{nope`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestImport_TooManyRows(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	var rows []string
	for i := 0; i < 11; i++ {
		rows = append(rows, fmt.Sprintf(`{"Name First and Last":"Person %d"}`, i))
	}
	body := `{"rows":[` + strings.Join(rows, ",") + `]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit is 10")
}

func TestImportEmployees_CSVUpload(t *testing.T) {
	svc := &stubService{companyID: 7}
	srv := newTestServer(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "employees.csv")
	require.NoError(t, err)
	fmt.Fprint(fw, "Name First and Last,Pin (4 digits or more)\nAda Lovelace,1234\nGrace Hopper,9999\n")
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/employees", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result core.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Summary.OK)
	assert.Equal(t, 2, svc.submitCalls)
}

func TestImport_CSVMissingFileField(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/employees", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportStaff_PreflightHeaderFailure(t *testing.T) {
	svc := &stubService{companyID: 7}
	srv := newTestServer(svc)

	// Staff uploads demand the password column up front.
	body := `{"rows":[{"Name First and Last":"Ada","Email":"ada@example.com"}]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/staff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password (6 Characters minimum)")
	assert.Equal(t, 0, svc.submitCalls, "no rows should be submitted on preflight failure")
}

func TestImportStaff_ExistingEmailConflict(t *testing.T) {
	svc := &stubService{
		companyID: 7,
		users: []core.ExistingUser{
			{ID: 3, Email: "ada@example.com", Name: "Ada Prime"},
		},
	}
	srv := newTestServer(svc)

	body := `{"rows":[{
		"Name First and Last":"Ada",
		"Email":"ada@example.com",
		"Password (6 Characters minimum)":"secret99"
	}]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/crew/staff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result core.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, 0, result.Summary.OK)
	assert.Contains(t, result.Results[0].Error, "already exists in the system")
	assert.Equal(t, 0, svc.submitCalls)
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(&stubService{companyID: 7})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.allow("1.2.3.4"))
	assert.True(t, rl.allow("1.2.3.4"))
	assert.False(t, rl.allow("1.2.3.4"), "third request in the window should be rejected")
	assert.True(t, rl.allow("5.6.7.8"), "limits are per IP")
}
