package session

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"rtc/internal/domain"
	"rtc/internal/parser"
	"rtc/internal/runenv"
)

// ScopeSeparator splits a full test name into its scope and leaf parts.
const ScopeSeparator = "::"

// Session accumulates test records from a single ordered event stream. It is
// written by exactly one goroutine and is not safe for concurrent use.
type Session struct {
	env        runenv.Environment
	records    map[string]*domain.TestRecord
	startedAt  time.Time
	finishedAt time.Time
	now        func() time.Time
}

// New creates a session bound to the detected CI environment.
func New(env runenv.Environment) *Session {
	return NewWithClock(env, time.Now)
}

// NewWithClock creates a session with an injected clock so relative timing
// is deterministic under test.
func NewWithClock(env runenv.Environment, now func() time.Time) *Session {
	return &Session{
		env:     env,
		records: make(map[string]*domain.TestRecord),
		now:     now,
	}
}

// Env returns the identity record attached to every upload.
func (s *Session) Env() runenv.Environment {
	return s.env
}

// StartedAt returns the suite start instant, zero until observed.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// FinishedAt returns the suite finish instant, zero until observed.
func (s *Session) FinishedAt() time.Time {
	return s.finishedAt
}

// Apply folds one event into the session state. Events referencing unknown
// tests are dropped; the session never aborts mid-stream.
func (s *Session) Apply(event *parser.Event) {
	switch {
	case event == nil:
	case event.Suite != nil:
		s.applySuite(event.Suite)
	case event.Test != nil:
		s.applyTest(event.Test)
	}
}

func (s *Session) applySuite(event *parser.SuiteEvent) {
	switch event.Kind {
	case parser.SuiteStarted:
		s.startedAt = s.now()
	case parser.SuiteOk, parser.SuiteFailed:
		s.finishedAt = s.now()
	}
}

func (s *Session) applyTest(event *parser.TestEvent) {
	switch event.Kind {
	case parser.TestStarted:
		s.start(event.Name)
	case parser.TestOk:
		s.finish(event.Name, event.ExecTime, false, nil)
	case parser.TestFailed:
		s.finish(event.Name, event.ExecTime, true, event.Stdout)
	case parser.TestIgnored, parser.TestTimeout:
		// No record to create or complete: these kinds have no started
		// counterpart in the stream.
	}
}

func (s *Session) start(name string) {
	offset := s.elapsed()
	scope, leaf := splitScope(name)

	// Keyed by the original full name; ok/failed events look it up by the
	// same name.
	s.records[name] = &domain.TestRecord{
		ID:       uuid.NewString(),
		Scope:    scope,
		Name:     leaf,
		Result:   domain.ResultPassed,
		FullName: name,
		History: domain.Timing{
			Section:  "top",
			StartAt:  &offset,
			Children: []domain.Timing{},
		},
	}
}

func (s *Session) finish(name string, execTime float64, failed bool, reason *string) {
	record, ok := s.records[name]
	if !ok {
		// Terminal event without a prior started event is an upstream
		// producer bug; drop it rather than abort the stream.
		return
	}

	end := s.elapsed()
	record.History.EndAt = &end
	record.History.Duration = &execTime
	if failed {
		record.Result = domain.ResultFailed
		record.FailureReason = reason
	}
}

// elapsed returns seconds since the suite started. A test event arriving
// before any suite started event implies the suite start.
func (s *Session) elapsed() float64 {
	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	return s.now().Sub(s.startedAt).Seconds()
}

// splitScope splits a full test name on its final scope separator. A name
// with a single segment has an empty scope.
func splitScope(name string) (scope, leaf string) {
	idx := strings.LastIndex(name, ScopeSeparator)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(ScopeSeparator):]
}

// Records returns a snapshot of every record observed so far, complete or
// not. Order is unspecified.
func (s *Session) Records() []domain.TestRecord {
	records := make([]domain.TestRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, *record)
	}
	return records
}

// CompleteRecords returns a snapshot of the records that have received a
// terminal event. Order is unspecified.
func (s *Session) CompleteRecords() []domain.TestRecord {
	records := make([]domain.TestRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.Complete() {
			records = append(records, *record)
		}
	}
	return records
}
