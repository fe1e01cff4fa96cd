package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/testutil"
	"timesheet-backend/internal/timesheet"
)

type env struct {
	t   *testing.T
	f   *testutil.Fixture
	api *testutil.API
}

func newEnv(t *testing.T) *env {
	f := testutil.NewFixture()
	return &env{t: t, f: f, api: testutil.NewAPI(f)}
}

// do sends a request as employee id (0 for anonymous)
func (e *env) do(method, path string, as int, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			e.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if as != 0 {
		req.Header.Set("Authorization", "Bearer "+e.api.Token(e.t, e.f, as))
	}
	rec := httptest.NewRecorder()
	e.api.Router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	if _, err := e.api.Employees.Create(context.Background(), 1, &models.CreateEmployeeRequest{
		Name: "Dev", Email: "dev@example.com", Password: "changeme1",
	}); err != nil {
		t.Fatal(err)
	}

	rec := e.do("POST", "/auth/login", 0, models.LoginRequest{Email: "dev@example.com", Password: "changeme1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %s", rec.Code, rec.Body)
	}
	var resp models.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("resp = %s (%v)", rec.Body, err)
	}

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	me := httptest.NewRecorder()
	e.api.Router.ServeHTTP(me, req)
	if me.Code != http.StatusOK || !strings.Contains(me.Body.String(), "dev@example.com") {
		t.Errorf("me = %d %s", me.Code, me.Body)
	}

	if rec := e.do("POST", "/auth/login", 0, models.LoginRequest{Email: "dev@example.com", Password: "nope"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d", rec.Code)
	}
}

func TestTimesheetAccess(t *testing.T) {
	e := newEnv(t)
	const q = "?start=2025-07-01&end=2025-07-07"
	tests := []struct {
		name   string
		method string
		path   string
		as     int
		body   interface{}
		code   int
	}{
		{"anonymous", "GET", "/api/employees/2/timesheets" + q, 0, nil, http.StatusUnauthorized},
		{"self", "GET", "/api/employees/2/timesheets" + q, 2, nil, http.StatusOK},
		{"mentor reads", "GET", "/api/employees/2/timesheets" + q, 3, nil, http.StatusOK},
		{"admin reads", "GET", "/api/employees/2/timesheets" + q, 1, nil, http.StatusOK},
		{"peer", "GET", "/api/employees/3/timesheets" + q, 2, nil, http.StatusForbidden},
		{"other organisation", "GET", "/api/employees/4/timesheets" + q, 1, nil, http.StatusNotFound},
		{"bad range", "GET", "/api/employees/2/timesheets?start=2025-07-07&end=2025-07-01", 2, nil, http.StatusBadRequest},
		{"mentor writes", "POST", "/api/employees/2/timesheets", 3, []timesheet.PackageGroup{}, http.StatusForbidden},
		{"malformed body", "POST", "/api/employees/2/timesheets", 2, "{not json", http.StatusBadRequest},
		{"employee lists employees", "GET", "/api/employees", 2, nil, http.StatusForbidden},
		{"admin lists employees", "GET", "/api/employees", 1, nil, http.StatusOK},
		{"employee reviews", "POST", "/api/timesheets/review", 2, models.ReviewRequest{EmployeeID: 2, IDs: []int{2}, Status: "Approved"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(tt.method, tt.path, tt.as, tt.body)
			if rec.Code != tt.code {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.code, rec.Body)
			}
		})
	}
}

func TestFetchAndSubmit(t *testing.T) {
	e := newEnv(t)

	rec := e.do("GET", "/api/employees/2/timesheets?start=2025-07-01&end=2025-07-07", 2, nil)
	var groups []timesheet.PackageGroup
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("fetch body %s: %v", rec.Body, err)
	}
	entries := timesheet.Flatten(groups)
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}

	cs := timesheet.NewChangeSet(entries)
	edited := entries[1]
	edited.Hours = 6
	cs.Track(edited)
	payload := timesheet.PrepareSubmitData(cs.Entries(), "")

	rec = e.do("POST", "/api/employees/2/timesheets", 2, payload)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"submitted":1`) {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body)
	}
	got := e.f.Timesheets.Batches[0][0]
	if got.ID != 2 || got.Hours != 6 || got.Status != "Waiting For Approval" {
		t.Errorf("upsert = %+v", got)
	}

	e.f.Timesheets.UpsertErr = services.ErrLocked
	if rec := e.do("POST", "/api/employees/2/timesheets", 2, payload); rec.Code != http.StatusConflict {
		t.Errorf("locked submit = %d", rec.Code)
	}

	e.f.Timesheets.UpsertErr = errors.New("connection reset")
	rec = e.do("POST", "/api/employees/2/timesheets", 2, payload)
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "connection reset") {
		t.Errorf("internal error = %d %s", rec.Code, rec.Body)
	}
}

func TestReviewNotifies(t *testing.T) {
	e := newEnv(t)
	rec := e.do("POST", "/api/timesheets/review", 1, models.ReviewRequest{EmployeeID: 2, IDs: []int{2, 3}, Status: "Approved"})
	if rec.Code != http.StatusOK {
		t.Fatalf("review = %d %s", rec.Code, rec.Body)
	}

	rec = e.do("GET", "/api/notifications", 2, nil)
	var list []models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("notifications = %s (%v)", rec.Body, err)
	}
	if rec := e.do("PUT", "/api/notifications/read-all", 2, nil); !strings.Contains(rec.Body.String(), `"updated":1`) {
		t.Errorf("read-all = %s", rec.Body)
	}
}

func TestExportAndSummary(t *testing.T) {
	e := newEnv(t)

	rec := e.do("GET", "/api/employees/2/timesheets/export?start=2025-07-01&end=2025-07-07", 2, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("export = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "timesheet_2_2025-07-01_2025-07-07.csv") {
		t.Errorf("disposition = %q", cd)
	}
	if rec := e.do("GET", "/api/employees/2/timesheets/export?start=2025-07-01&end=2025-07-07&format=pdf", 2, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad format = %d", rec.Code)
	}

	rec = e.do("GET", "/api/employees/2/timesheets/summary?start=2025-07-01&end=2025-07-07", 2, nil)
	var sum models.TimesheetSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil || sum.TotalHours != 6.5 {
		t.Errorf("summary = %s (%v)", rec.Body, err)
	}
}

func TestSalarySlipPreview(t *testing.T) {
	e := newEnv(t)
	req := models.SalarySlipRequest{EmployeeID: 2, Year: 2025, Month: 7, Basic: 31000}

	rec := e.do("POST", "/api/salary-slips/preview", 1, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("preview = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("preview body is not a PDF")
	}
	if rec := e.do("POST", "/api/salary-slips/preview", 2, req); rec.Code != http.StatusForbidden {
		t.Errorf("employee preview = %d", rec.Code)
	}
	if rec := e.do("POST", "/api/salary-slips/preview?format=json", 1, models.SalarySlipRequest{EmployeeID: 2, Year: 2025, Month: 13}); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid month = %d", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := e.do("GET", path, 0, nil); rec.Code != http.StatusOK {
			t.Errorf("%s = %d", path, rec.Code)
		}
	}
}
