package attendance

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrPersonNotFound = errors.New("person not found in roster")
)

type (
	// RosterSource supplies the people eligible for attendance in a scope on a date.
	RosterSource interface {
		FetchRoster(ctx context.Context, scope string, date time.Time) ([]Person, error)
	}

	// EventSource supplies attendance events already recorded upstream.
	EventSource interface {
		FetchDayEvents(ctx context.Context, scope string, date time.Time) ([]Event, error)
		FetchMonthEvents(ctx context.Context, scope string, year int, month time.Month) ([]Event, error)
	}

	// EventRecorder persists a new attendance marking upstream. Persistence is
	// entirely the upstream service's responsibility.
	EventRecorder interface {
		RecordMark(ctx context.Context, mark Mark) error
	}

	ServiceInterface interface {
		Day(ctx context.Context, scope string, date time.Time) ([]Record, error)
		Month(ctx context.Context, scope string, year int, month time.Month) ([]Grid, error)
		Summary(ctx context.Context, scope string, date time.Time) (Summary, error)
		Mark(ctx context.Context, mark Mark) (Record, error)
	}

	service struct {
		roster     RosterSource
		events     EventSource
		recorder   EventRecorder
		lateCutoff TimeOfDay
		cache      *dayCache
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(roster RosterSource, events EventSource, recorder EventRecorder, conf *core.Config) (ServiceInterface, error) {
	cutoff, err := ParseTimeOfDay(conf.Attendance.LateThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parsing late threshold")
	}
	return &service{
		roster:     roster,
		events:     events,
		recorder:   recorder,
		lateCutoff: cutoff,
		cache:      newDayCache(),
	}, nil
}

// Day returns one reconciled record per roster member for the scope and date.
// Records are cached per (scope, date) for the session so toggling between the
// daily and monthly views does not refetch; Mark invalidates the affected day.
func (svc *service) Day(ctx context.Context, scope string, date time.Time) ([]Record, error) {
	date = DateOf(date)
	if records, ok := svc.cache.get(scope, date); ok {
		return records, nil
	}

	roster, events, err := svc.fetchDay(ctx, scope, date)
	if err != nil {
		return nil, err
	}

	records := Reconcile(roster, events, date, svc.lateCutoff)
	svc.cache.put(scope, date, records)
	return records, nil
}

// Month projects every roster member onto a fixed-width grid for (year, month).
// Grids are rebuilt on every call; only daily records are session-cached.
func (svc *service) Month(ctx context.Context, scope string, year int, month time.Month) ([]Grid, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	var roster []Person
	var events []Event
	errc := make(chan error, 2)
	go func() {
		r, err := svc.roster.FetchRoster(ctx, scope, monthStart)
		roster = r
		errc <- pkgerrors.Wrap(err, "fetching roster")
	}()
	go func() {
		evs, err := svc.events.FetchMonthEvents(ctx, scope, year, month)
		events = evs
		errc <- pkgerrors.Wrap(err, "fetching month events")
	}()
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil {
			return nil, err
		}
	}

	// reconcile each day that has events; dataless days stay nil cells
	byDate := make(map[time.Time][]Event)
	for _, ev := range events {
		d := DateOf(ev.Date)
		byDate[d] = append(byDate[d], ev)
	}
	var records []Record
	for date, dayEvs := range byDate {
		records = append(records, Reconcile(roster, dayEvs, date, svc.lateCutoff)...)
	}

	grids := make([]Grid, 0, len(roster))
	for _, person := range roster {
		grids = append(grids, Project(person, year, month, records))
	}
	return grids, nil
}

// Summary reconciles the day and reduces it to aggregate counts.
func (svc *service) Summary(ctx context.Context, scope string, date time.Time) (Summary, error) {
	records, err := svc.Day(ctx, scope, date)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(scope, records), nil
}

// Mark records a new attendance event upstream, then re-reconciles the day and
// returns the authoritative record for the marked person. Whatever the server
// holds wins over any optimistic state the caller applied; retries converge
// via latest-timestamp-wins, so no duplicate shows in the merged view.
func (svc *service) Mark(ctx context.Context, mark Mark) (Record, error) {
	if err := svc.recorder.RecordMark(ctx, mark); err != nil {
		return Record{}, pkgerrors.Wrap(err, "recording mark")
	}
	svc.cache.drop(mark.Scope, mark.Date)

	records, err := svc.Day(ctx, mark.Scope, mark.Date)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Person.ID == mark.PersonID {
			return rec, nil
		}
	}
	return Record{}, ErrPersonNotFound
}

// fetchDay fetches the roster and the day's events concurrently; both must
// complete before reconciliation since the merge needs both inputs at once.
func (svc *service) fetchDay(ctx context.Context, scope string, date time.Time) ([]Person, []Event, error) {
	var roster []Person
	var events []Event
	errc := make(chan error, 2)
	go func() {
		r, err := svc.roster.FetchRoster(ctx, scope, date)
		roster = r
		errc <- pkgerrors.Wrap(err, "fetching roster")
	}()
	go func() {
		evs, err := svc.events.FetchDayEvents(ctx, scope, date)
		events = evs
		errc <- pkgerrors.Wrap(err, "fetching day events")
	}()
	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return roster, events, nil
}
