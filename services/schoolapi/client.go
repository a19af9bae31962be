package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

// Client talks to the upstream school service that owns the roster and the
// attendance event store. Transport failures are surfaced as retryable errors;
// malformed payloads degrade to empty result sets so one failing source does
// not block the other's data.
type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger
}

var (
	_ attendance.RosterSource  = (*Client)(nil)
	_ attendance.EventSource   = (*Client)(nil)
	_ attendance.EventRecorder = (*Client)(nil)
)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.SchoolAPI.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.SchoolAPI.Timeout},
		logger:  logger,
	}
}

func (c *Client) FetchRoster(ctx context.Context, scope string, date time.Time) ([]attendance.Person, error) {
	q := url.Values{}
	q.Set("scope", scope)
	q.Set("date", date.Format(dateFormat))

	env, err := c.get(ctx, "/roster", q)
	if err != nil {
		return nil, err
	}

	var payloads []personPayload
	if !c.decodeData(env, "/roster", &payloads) {
		return []attendance.Person{}, nil
	}

	roster := make([]attendance.Person, 0, len(payloads))
	for _, p := range payloads {
		person := p.toPerson()
		if person.ID == "" {
			c.logger.Warn(fmt.Sprintf("schoolapi: dropping roster entry with no identifier: %+v", p))
			continue
		}
		roster = append(roster, person)
	}
	return roster, nil
}

func (c *Client) FetchDayEvents(ctx context.Context, scope string, date time.Time) ([]attendance.Event, error) {
	q := url.Values{}
	q.Set("scope", scope)
	q.Set("date", date.Format(dateFormat))
	return c.fetchEvents(ctx, q)
}

func (c *Client) FetchMonthEvents(ctx context.Context, scope string, year int, month time.Month) ([]attendance.Event, error) {
	q := url.Values{}
	q.Set("scope", scope)
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(int(month)))
	return c.fetchEvents(ctx, q)
}

func (c *Client) fetchEvents(ctx context.Context, q url.Values) ([]attendance.Event, error) {
	env, err := c.get(ctx, "/events", q)
	if err != nil {
		return nil, err
	}

	var payloads []eventPayload
	if !c.decodeData(env, "/events", &payloads) {
		return []attendance.Event{}, nil
	}

	events := make([]attendance.Event, 0, len(payloads))
	for _, p := range payloads {
		ev, ok := p.toEvent()
		if !ok {
			c.logger.Warn(fmt.Sprintf("schoolapi: dropping undecodable event: %+v", p))
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// RecordMark posts a new attendance marking. A `success: false` reply means
// the server rejected the mark; the caller must revert any optimistic change.
func (c *Client) RecordMark(ctx context.Context, mark attendance.Mark) error {
	body, err := json.Marshal(markPayload{
		PersonID:       mark.PersonID,
		Scope:          mark.Scope,
		Date:           mark.Date.Format(dateFormat),
		Kind:           string(mark.Kind),
		ActorName:      mark.ActorName,
		ActorRole:      mark.ActorRole,
		Relationship:   mark.Relationship,
		Source:         mark.Source,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return errors.Wrap(err, "marshalling mark")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mark", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building mark request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting mark")
	}
	defer func() { _ = res.Body.Close() }()

	var env envelope
	if err = json.NewDecoder(res.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "decoding mark response")
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "mark rejected by the school service"
		}
		return core.NewValidationError(errors.New(msg))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (envelope, error) {
	var env envelope

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return env, errors.Wrapf(err, "building %s request", path)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return env, errors.Wrapf(err, "fetching %s", path)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusInternalServerError {
		return env, errors.Errorf("fetching %s: upstream returned %s", path, res.Status)
	}

	if err = json.NewDecoder(res.Body).Decode(&env); err != nil {
		// malformed body; treated as an empty result set downstream
		c.logger.Warn(fmt.Sprintf("schoolapi: malformed %s response: %v", path, err))
		return envelope{Success: false}, nil
	}
	return env, nil
}

// decodeData unmarshals the envelope's data array into out. A missing
// success flag or a non-array data field yields false, never an error.
func (c *Client) decodeData(env envelope, path string, out interface{}) bool {
	if !env.Success || len(env.Data) == 0 {
		return false
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		c.logger.Warn(fmt.Sprintf("schoolapi: malformed %s data: %v", path, err))
		return false
	}
	return true
}
