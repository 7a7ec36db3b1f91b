package session

import (
	"testing"
	"time"

	"rtc/internal/domain"
	"rtc/internal/parser"
	"rtc/internal/runenv"
)

// fakeClock is a manually advanced clock for deterministic timing.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testEnv() runenv.Environment {
	return runenv.Environment{CI: "generic", Key: "run-key", Collector: "go-test-collector", Version: "test"}
}

func suiteStarted(count int) *parser.Event {
	return &parser.Event{Suite: &parser.SuiteEvent{Kind: parser.SuiteStarted, TestCount: count}}
}

func suiteFinished(kind parser.SuiteKind) *parser.Event {
	return &parser.Event{Suite: &parser.SuiteEvent{Kind: kind}}
}

func testStarted(name string) *parser.Event {
	return &parser.Event{Test: &parser.TestEvent{Kind: parser.TestStarted, Name: name}}
}

func testOk(name string, execTime float64) *parser.Event {
	return &parser.Event{Test: &parser.TestEvent{Kind: parser.TestOk, Name: name, ExecTime: execTime}}
}

func testFailed(name string, execTime float64, stdout, stderr *string) *parser.Event {
	return &parser.Event{Test: &parser.TestEvent{Kind: parser.TestFailed, Name: name, ExecTime: execTime, Stdout: stdout, Stderr: stderr}}
}

func TestSession_SingleCompleteRecord(t *testing.T) {
	clock := newFakeClock()
	sess := NewWithClock(testEnv(), clock.Now)

	sess.Apply(suiteStarted(1))
	clock.advance(2 * time.Second)
	sess.Apply(testStarted("mod::case"))
	clock.advance(3 * time.Second)
	sess.Apply(testOk("mod::case", 0.01))
	sess.Apply(suiteFinished(parser.SuiteOk))

	records := sess.CompleteRecords()
	if len(records) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(records))
	}

	record := records[0]
	if record.Scope != "mod" {
		t.Errorf("expected scope %q, got %q", "mod", record.Scope)
	}
	if record.Name != "case" {
		t.Errorf("expected name %q, got %q", "case", record.Name)
	}
	if record.Result != domain.ResultPassed {
		t.Errorf("expected result %q, got %q", domain.ResultPassed, record.Result)
	}
	if record.ID == "" {
		t.Error("expected a non-empty record id")
	}
	if record.History.StartAt == nil || *record.History.StartAt != 2.0 {
		t.Errorf("expected start offset 2.0, got %v", record.History.StartAt)
	}
	if record.History.EndAt == nil || *record.History.EndAt != 5.0 {
		t.Errorf("expected end offset 5.0, got %v", record.History.EndAt)
	}
	if record.History.Duration == nil || *record.History.Duration != 0.01 {
		t.Errorf("expected duration 0.01, got %v", record.History.Duration)
	}
	if sess.FinishedAt().IsZero() {
		t.Error("expected suite finish instant to be recorded")
	}
}

func TestSession_ScopeSplitting(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		wantScope string
		wantLeaf  string
	}{
		{
			name:      "two segments",
			fullName:  "mod::case",
			wantScope: "mod",
			wantLeaf:  "case",
		},
		{
			name:      "deeply nested",
			fullName:  "payload::test::batchify_works",
			wantScope: "payload::test",
			wantLeaf:  "batchify_works",
		},
		{
			name:      "single segment has empty scope",
			fullName:  "standalone",
			wantScope: "",
			wantLeaf:  "standalone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := NewWithClock(testEnv(), newFakeClock().Now)
			sess.Apply(suiteStarted(1))
			sess.Apply(testStarted(tt.fullName))

			records := sess.Records()
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			if records[0].Scope != tt.wantScope {
				t.Errorf("expected scope %q, got %q", tt.wantScope, records[0].Scope)
			}
			if records[0].Name != tt.wantLeaf {
				t.Errorf("expected leaf %q, got %q", tt.wantLeaf, records[0].Name)
			}
			if records[0].FullName != tt.fullName {
				t.Errorf("expected full name %q, got %q", tt.fullName, records[0].FullName)
			}
		})
	}
}

func TestSession_FailureKeepsStdoutDropsStderr(t *testing.T) {
	clock := newFakeClock()
	sess := NewWithClock(testEnv(), clock.Now)

	stdout := "panic"
	stderr := "thread 'main' panicked"
	sess.Apply(suiteStarted(1))
	sess.Apply(testStarted("mod::case"))
	clock.advance(time.Second)
	sess.Apply(testFailed("mod::case", 0.9, &stdout, &stderr))

	records := sess.CompleteRecords()
	if len(records) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(records))
	}
	record := records[0]
	if record.Result != domain.ResultFailed {
		t.Errorf("expected result %q, got %q", domain.ResultFailed, record.Result)
	}
	if record.FailureReason == nil || *record.FailureReason != "panic" {
		t.Errorf("expected failure reason %q, got %v", "panic", record.FailureReason)
	}
}

func TestSession_FailureWithoutStdout(t *testing.T) {
	sess := NewWithClock(testEnv(), newFakeClock().Now)

	sess.Apply(suiteStarted(1))
	sess.Apply(testStarted("mod::case"))
	sess.Apply(testFailed("mod::case", 0.1, nil, nil))

	records := sess.CompleteRecords()
	if len(records) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(records))
	}
	if records[0].FailureReason != nil {
		t.Errorf("expected no failure reason, got %v", *records[0].FailureReason)
	}
}

func TestSession_UnknownNameTerminalEventIsDropped(t *testing.T) {
	sess := NewWithClock(testEnv(), newFakeClock().Now)

	sess.Apply(suiteStarted(1))
	sess.Apply(testOk("never::started", 0.1))
	sess.Apply(testFailed("also::never::started", 0.1, nil, nil))

	if got := len(sess.Records()); got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
}

func TestSession_IgnoredAndTimeoutCreateNoRecords(t *testing.T) {
	sess := NewWithClock(testEnv(), newFakeClock().Now)

	sess.Apply(suiteStarted(2))
	sess.Apply(&parser.Event{Test: &parser.TestEvent{Kind: parser.TestIgnored, Name: "mod::skipped"}})
	sess.Apply(&parser.Event{Test: &parser.TestEvent{Kind: parser.TestTimeout, Name: "mod::slow"}})

	if got := len(sess.Records()); got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
}

func TestSession_ImplicitSuiteStart(t *testing.T) {
	clock := newFakeClock()
	sess := NewWithClock(testEnv(), clock.Now)

	// No suite started event: the first test event implies the suite start.
	sess.Apply(testStarted("mod::case"))

	records := sess.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].History.StartAt == nil || *records[0].History.StartAt != 0.0 {
		t.Errorf("expected start offset 0.0, got %v", records[0].History.StartAt)
	}
	if sess.StartedAt().IsZero() {
		t.Error("expected implicit suite start to be stamped")
	}
}

func TestSession_StartedWithoutTerminalStaysIncomplete(t *testing.T) {
	sess := NewWithClock(testEnv(), newFakeClock().Now)

	sess.Apply(suiteStarted(2))
	sess.Apply(testStarted("mod::finished"))
	sess.Apply(testStarted("mod::hanging"))
	sess.Apply(testOk("mod::finished", 0.2))

	if got := len(sess.Records()); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}

	complete := sess.CompleteRecords()
	if len(complete) != 1 {
		t.Fatalf("expected 1 complete record, got %d", len(complete))
	}
	if complete[0].FullName != "mod::finished" {
		t.Errorf("expected %q to be the complete record, got %q", "mod::finished", complete[0].FullName)
	}
}

func TestSession_RecordIDsAreUnique(t *testing.T) {
	sess := NewWithClock(testEnv(), newFakeClock().Now)

	sess.Apply(suiteStarted(3))
	sess.Apply(testStarted("a::one"))
	sess.Apply(testStarted("a::two"))
	sess.Apply(testStarted("b::one"))

	seen := make(map[string]bool)
	for _, record := range sess.Records() {
		if seen[record.ID] {
			t.Errorf("duplicate record id %q", record.ID)
		}
		seen[record.ID] = true
	}
}
