package progress

import (
	"bytes"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf, "Syncing projects")

	r.Start(2)
	r.Update(1, "Urban Garden")
	r.Update(2, "Solar Bench")
	r.Finish()

	want := "Syncing projects: 2 item(s)\n[1/2] Urban Garden\n[2/2] Solar Bench\nSyncing projects: done\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter(&bytes.Buffer{}, "x").(*LineReporter); !ok {
		t.Error("expected a LineReporter in CI")
	}
}

func TestTerminalReporter(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	var buf bytes.Buffer
	r := NewReporter(&buf, "Syncing projects")
	if _, ok := r.(*TerminalReporter); !ok {
		t.Fatalf("expected a TerminalReporter, got %T", r)
	}
	r.Start(1)
	r.Update(1, "Urban Garden")
	r.Finish()
	if buf.Len() == 0 {
		t.Error("expected the bar to write output")
	}
}
