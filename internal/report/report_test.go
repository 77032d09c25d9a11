package report

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/scriptrunner/internal/runhistory"
)

func sampleRun(scriptPath string, duration time.Duration, errs []runhistory.RecordedError) runhistory.Run {
	started := time.Now()
	return runhistory.Run{
		ID:         uuid.New(),
		ScriptPath: scriptPath,
		StartedAt:  started,
		FinishedAt: started.Add(duration),
		Errors:     errs,
	}
}

func TestSummaryCountsPassAndFail(t *testing.T) {
	reporter, err := NewReporter()
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}
	defer reporter.Close()

	runs := []runhistory.Run{
		sampleRun("a.mag", 10*time.Millisecond, nil),
		sampleRun("b.mag", 20*time.Millisecond, []runhistory.RecordedError{{Phase: "runtime", Message: "boom"}}),
		sampleRun("c.mag", 30*time.Millisecond, nil),
	}
	if err := reporter.LoadRuns(runs); err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}

	summary, err := reporter.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalRuns != 3 {
		t.Errorf("TotalRuns = %d, want 3", summary.TotalRuns)
	}
	if summary.PassedRuns != 2 {
		t.Errorf("PassedRuns = %d, want 2", summary.PassedRuns)
	}
	if summary.FailedRuns != 1 {
		t.Errorf("FailedRuns = %d, want 1", summary.FailedRuns)
	}
	if summary.MedianMs <= 0 {
		t.Errorf("MedianMs = %v, want > 0", summary.MedianMs)
	}
}

func TestSummaryOnEmptyRunsIsZero(t *testing.T) {
	reporter, err := NewReporter()
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}
	defer reporter.Close()

	if err := reporter.LoadRuns(nil); err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	summary, err := reporter.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalRuns != 0 || summary.MedianMs != 0 {
		t.Errorf("Summary = %+v, want all zero", summary)
	}
}

func TestLoadRunsReplacesPreviousBatch(t *testing.T) {
	reporter, err := NewReporter()
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}
	defer reporter.Close()

	if err := reporter.LoadRuns([]runhistory.Run{sampleRun("a.mag", time.Millisecond, nil)}); err != nil {
		t.Fatalf("first LoadRuns failed: %v", err)
	}
	if err := reporter.LoadRuns([]runhistory.Run{
		sampleRun("b.mag", time.Millisecond, nil),
		sampleRun("c.mag", time.Millisecond, nil),
	}); err != nil {
		t.Fatalf("second LoadRuns failed: %v", err)
	}

	summary, err := reporter.Summary()
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalRuns != 2 {
		t.Errorf("TotalRuns = %d, want 2 (stale batch not cleared)", summary.TotalRuns)
	}
}

func TestSlowestScripts(t *testing.T) {
	reporter, err := NewReporter()
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}
	defer reporter.Close()

	runs := []runhistory.Run{
		sampleRun("fast.mag", 5*time.Millisecond, nil),
		sampleRun("slow.mag", 500*time.Millisecond, nil),
	}
	if err := reporter.LoadRuns(runs); err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}

	slowest, err := reporter.SlowestScripts(1)
	if err != nil {
		t.Fatalf("SlowestScripts failed: %v", err)
	}
	if len(slowest) != 1 || slowest[0].ScriptPath != "slow.mag" {
		t.Errorf("slowest = %+v", slowest)
	}
}
