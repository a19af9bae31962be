package schoolapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func jsonDecode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &core.Config{
		SchoolAPI: core.SchoolAPIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
	}
	return NewClient(conf, nopLogger{}), srv
}

func TestClient_FetchRoster_identityNormalization(t *testing.T) {
	// the three known shapes of the same identifier, plus a numeric one
	body := `{"success": true, "data": [
		{"id": "s-1", "name": "Amani", "scope_id": "branch-1", "role": "student"},
		{"student_id": "s-2", "display_name": "Bahati", "branch_id": "branch-1"},
		{"user_id": 3, "name": "Ms. Kalala", "scope_id": "branch-1", "role": "teacher"}
	]}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Path, "/roster"; got != want {
			t.Errorf("path = %s; want %s", got, want)
		}
		_, _ = w.Write([]byte(body))
	})

	roster, err := client.FetchRoster(context.Background(), "branch-1", time.Now())
	if err != nil {
		t.Fatalf("FetchRoster() failed: %v", err)
	}

	wantIDs := []string{"s-1", "s-2", "3"}
	if len(roster) != len(wantIDs) {
		t.Fatalf("len(roster) = %d; want %d", len(roster), len(wantIDs))
	}
	for i, p := range roster {
		if p.ID != wantIDs[i] {
			t.Errorf("roster[%d].ID = %q; want %q", i, p.ID, wantIDs[i])
		}
	}
	assert.Equal(t, "Bahati", roster[1].Name)
	assert.Equal(t, attendance.RoleStudent, roster[1].Role)
	assert.Equal(t, "branch-1", roster[1].ScopeID)
}

func TestClient_malformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON at all", body: "<html>gateway error</html>"},
		{name: "success false", body: `{"success": false, "message": "nope"}`},
		{name: "data is not an array", body: `{"success": true, "data": {"weird": true}}`},
		{name: "data missing", body: `{"success": true}`},
		{name: "data null", body: `{"success": true, "data": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			// one failing source degrades to empty, it does not block rendering
			roster, err := client.FetchRoster(context.Background(), "branch-1", time.Now())
			if err != nil {
				t.Fatalf("FetchRoster() failed: %v", err)
			}
			if len(roster) != 0 {
				t.Errorf("len(roster) = %d; want 0", len(roster))
			}

			events, err := client.FetchDayEvents(context.Background(), "branch-1", time.Now())
			if err != nil {
				t.Fatalf("FetchDayEvents() failed: %v", err)
			}
			if len(events) != 0 {
				t.Errorf("len(events) = %d; want 0", len(events))
			}
		})
	}
}

func TestClient_FetchDayEvents(t *testing.T) {
	body := `{"success": true, "data": [
		{"id": 10, "student_id": "s-1", "date": "2021-03-08", "kind": "entry",
		 "timestamp": "2021-03-08T08:05:00Z", "actor_name": "Ms. Kalala", "actor_role": "teacher", "source": "qr"},
		{"person_id": "s-2", "kind": "exit", "timestamp": "2021-03-08T16:10:00Z",
		 "actor_name": "Jane", "guardian_type": "Mother", "source": "guardian"},
		{"kind": "entry", "timestamp": "2021-03-08T08:00:00Z"},
		{"person_id": "s-3", "kind": "entry", "timestamp": "not-a-time"}
	]}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	events, err := client.FetchDayEvents(context.Background(), "branch-1", time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchDayEvents() failed: %v", err)
	}

	// entries with no identifier or no usable timestamp are dropped, not fatal
	if len(events) != 2 {
		t.Fatalf("len(events) = %d; want 2", len(events))
	}

	first := events[0]
	assert.Equal(t, "s-1", first.PersonID)
	assert.Equal(t, attendance.KindEntry, first.Kind)
	assert.Equal(t, attendance.SourceQR, first.Source)
	if want := time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v; want %v", first.Date, want)
	}

	// guardian_type maps onto the relationship tag; date falls back to the timestamp
	second := events[1]
	assert.Equal(t, "Mother", second.Relationship)
	if want := time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC); !second.Date.Equal(want) {
		t.Errorf("Date = %v; want %v", second.Date, want)
	}
}

func TestClient_RecordMark(t *testing.T) {
	mark := attendance.Mark{
		PersonID: "s-1", Scope: "branch-1",
		Date: time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC),
		Kind: attendance.KindEntry, ActorName: "Ms. Kalala", ActorRole: "teacher",
		Source: attendance.SourceManual,
	}

	t.Run("accepted", func(t *testing.T) {
		var gotKey string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var payload markPayload
			if err := jsonDecode(r, &payload); err != nil {
				t.Fatalf("decoding mark payload: %v", err)
			}
			gotKey = payload.IdempotencyKey
			assert.Equal(t, "s-1", payload.PersonID)
			assert.Equal(t, "2021-03-08", payload.Date)
			_, _ = w.Write([]byte(`{"success": true}`))
		})

		if err := client.RecordMark(context.Background(), mark); err != nil {
			t.Fatalf("RecordMark() failed: %v", err)
		}
		if gotKey == "" {
			t.Error("idempotency key missing from mark payload")
		}
	})

	t.Run("rejected marks surface as validation errors", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "message": "already checked out"}`))
		})

		err := client.RecordMark(context.Background(), mark)
		if err == nil {
			t.Fatal("RecordMark() error = nil; want validation error")
		}
		if _, ok := err.(*core.ValidationError); !ok {
			t.Fatalf("RecordMark() error = %T; want *core.ValidationError", err)
		}
		assert.Equal(t, "already checked out", err.Error())
	})
}

func TestClient_transportFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	if _, err := client.FetchRoster(context.Background(), "branch-1", time.Now()); err == nil {
		t.Error("FetchRoster() error = nil; want transport error")
	}
	if _, err := client.FetchMonthEvents(context.Background(), "branch-1", 2021, time.March); err == nil {
		t.Error("FetchMonthEvents() error = nil; want transport error")
	}
}

func TestClient_upstreamServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.FetchDayEvents(context.Background(), "branch-1", time.Now()); err == nil {
		t.Error("FetchDayEvents() error = nil; want retryable error")
	}
}
