package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
)

var (
	testConf *core.Config

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeSchoolAPI doubles for the remote school service in API tests.
type fakeSchoolAPI struct {
	mu     sync.Mutex
	roster []attendance.Person
	events []attendance.Event
}

func (f *fakeSchoolAPI) FetchRoster(_ context.Context, _ string, _ time.Time) ([]attendance.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roster, nil
}

func (f *fakeSchoolAPI) FetchDayEvents(_ context.Context, _ string, date time.Time) ([]attendance.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var evs []attendance.Event
	for _, ev := range f.events {
		if attendance.SameDay(ev.Date, date) {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (f *fakeSchoolAPI) FetchMonthEvents(_ context.Context, _ string, year int, month time.Month) ([]attendance.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var evs []attendance.Event
	for _, ev := range f.events {
		if ev.Date.Year() == year && ev.Date.Month() == month {
			evs = append(evs, ev)
		}
	}
	return evs, nil
}

func (f *fakeSchoolAPI) RecordMark(_ context.Context, mark attendance.Mark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, attendance.Event{
		PersonID:     mark.PersonID,
		Date:         attendance.DateOf(mark.Date),
		Kind:         mark.Kind,
		Timestamp:    time.Now().UTC(),
		ActorName:    mark.ActorName,
		ActorRole:    mark.ActorRole,
		Relationship: mark.Relationship,
		Source:       mark.Source,
	})
	return nil
}

func newTestConf() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Mahudhurio",
		SecretKey: []byte("test-secret"),
		Server: core.ServerConfig{
			Addr:               ":0",
			JWTExpirationDelta: time.Hour,
		},
		Attendance:       core.AttendanceConfig{LateThreshold: "09:00"},
		ReportRecipients: []string{"admin@test.cd"},
	}
}

func setup(t *testing.T, api *fakeSchoolAPI) Server {
	t.Helper()

	testConf = newTestConf()
	logger := nopLogger{}

	attSvc, err := attendance.NewService(api, api, api, testConf)
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	validate, translator := NewValidation()

	return NewServer(
		ServerDeps{
			Conf:           testConf,
			Logger:         logger,
			AttendanceSvc:  attSvc,
			MailSvc:        emailsvc.NewConsoleServiceMock(testConf, logger),
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, name, role string, isAdmin bool) string {
	claims := OperatorClaims(testConf, "op-1", name, role, isAdmin)
	token, err := GenerateToken(testConf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
