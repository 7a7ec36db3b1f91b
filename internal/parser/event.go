package parser

import (
	"encoding/json"
	"fmt"
)

// SuiteKind is the "event" tag of a suite-level event.
type SuiteKind string

// Suite event kinds emitted by the runner.
const (
	SuiteStarted SuiteKind = "started"
	SuiteOk      SuiteKind = "ok"
	SuiteFailed  SuiteKind = "failed"
)

// TestKind is the "event" tag of a test-level event.
type TestKind string

// Test event kinds emitted by the runner.
const (
	TestStarted TestKind = "started"
	TestOk      TestKind = "ok"
	TestFailed  TestKind = "failed"
	TestIgnored TestKind = "ignored"
	TestTimeout TestKind = "timeout"
)

// SuiteResults are the counters the runner reports when a suite finishes.
type SuiteResults struct {
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	Ignored     int     `json:"ignored"`
	Measured    int     `json:"measured"`
	FilteredOut int     `json:"filtered_out"`
	ExecTime    float64 `json:"exec_time"`
}

// SuiteEvent is an event relating to the entire test suite.
type SuiteEvent struct {
	Kind      SuiteKind
	TestCount int
	Results   SuiteResults
}

// TestEvent is an event relating to an individual test. Stdout and Stderr
// only appear on failed events and may be absent even there.
type TestEvent struct {
	Kind     TestKind
	Name     string
	ExecTime float64
	Stdout   *string
	Stderr   *string
}

// Event is one decoded unit from the input stream: either a suite event or a
// test event, never both.
type Event struct {
	Suite *SuiteEvent
	Test  *TestEvent
}

// wireEvent is the superset of fields any event line can carry. The field
// names are a fixed external contract with the runner. Pointer fields let us
// tell "absent" from "zero" when validating a shape.
type wireEvent struct {
	Type        string   `json:"type"`
	Event       string   `json:"event"`
	Name        string   `json:"name"`
	ExecTime    *float64 `json:"exec_time"`
	Stdout      *string  `json:"stdout"`
	Stderr      *string  `json:"stderr"`
	TestCount   *int     `json:"test_count"`
	Passed      *int     `json:"passed"`
	Failed      *int     `json:"failed"`
	Ignored     *int     `json:"ignored"`
	Measured    *int     `json:"measured"`
	FilteredOut *int     `json:"filtered_out"`
}

// decodeEvent converts one candidate line into an Event, or reports why the
// line does not match any known event shape.
func decodeEvent(line []byte) (*Event, error) {
	var wire wireEvent
	if err := json.Unmarshal(line, &wire); err != nil {
		return nil, err
	}

	switch wire.Type {
	case "suite":
		suite, err := wire.suiteEvent()
		if err != nil {
			return nil, err
		}
		return &Event{Suite: suite}, nil
	case "test":
		test, err := wire.testEvent()
		if err != nil {
			return nil, err
		}
		return &Event{Test: test}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", wire.Type)
	}
}

func (w *wireEvent) suiteEvent() (*SuiteEvent, error) {
	switch SuiteKind(w.Event) {
	case SuiteStarted:
		if w.TestCount == nil {
			return nil, fmt.Errorf("suite %q event missing test_count", w.Event)
		}
		return &SuiteEvent{Kind: SuiteStarted, TestCount: *w.TestCount}, nil
	case SuiteOk, SuiteFailed:
		results, err := w.suiteResults()
		if err != nil {
			return nil, err
		}
		return &SuiteEvent{Kind: SuiteKind(w.Event), Results: *results}, nil
	default:
		return nil, fmt.Errorf("unknown suite event %q", w.Event)
	}
}

func (w *wireEvent) suiteResults() (*SuiteResults, error) {
	if w.Passed == nil || w.Failed == nil || w.Ignored == nil || w.Measured == nil || w.FilteredOut == nil || w.ExecTime == nil {
		return nil, fmt.Errorf("suite %q event missing result counters", w.Event)
	}
	return &SuiteResults{
		Passed:      *w.Passed,
		Failed:      *w.Failed,
		Ignored:     *w.Ignored,
		Measured:    *w.Measured,
		FilteredOut: *w.FilteredOut,
		ExecTime:    *w.ExecTime,
	}, nil
}

func (w *wireEvent) testEvent() (*TestEvent, error) {
	if w.Name == "" {
		return nil, fmt.Errorf("test %q event missing name", w.Event)
	}

	event := &TestEvent{Kind: TestKind(w.Event), Name: w.Name}

	switch TestKind(w.Event) {
	case TestStarted, TestIgnored, TestTimeout:
		return event, nil
	case TestOk, TestFailed:
		if w.ExecTime == nil {
			return nil, fmt.Errorf("test %q event missing exec_time", w.Event)
		}
		event.ExecTime = *w.ExecTime
		event.Stdout = w.Stdout
		event.Stderr = w.Stderr
		return event, nil
	default:
		return nil, fmt.Errorf("unknown test event %q", w.Event)
	}
}
