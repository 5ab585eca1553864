package web

import (
	"strings"
	"testing"

	"github.com/innovation-earth/iepsite/internal/projects"
)

func TestAdminPanelToggle(t *testing.T) {
	a := NewAdminPanel()
	if a.State() != PanelClosed {
		t.Fatal("expected a new panel to be closed")
	}
	if a.Toggle() != PanelOpen || !a.IsOpen() {
		t.Error("expected toggle to open")
	}
	if a.Toggle() != PanelClosed {
		t.Error("expected second toggle to close")
	}
	if a.Close() {
		t.Error("closing a closed panel should report no change")
	}
	a.Toggle()
	if !a.Close() || a.IsOpen() {
		t.Error("expected close to hide an open panel")
	}
}

func TestAdminPanelResetDefaults(t *testing.T) {
	a := NewAdminPanel()
	a.Tags.Add("eco")
	a.Image.Load(strings.NewReader("x"), 1, "image/gif")
	if err := a.SetStatus("completed"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	a.Reset()
	f := a.Form()
	if f.Status != projects.StatusIdea || f.Priority != projects.PriorityMedium || f.Progress != 0 {
		t.Errorf("unexpected defaults %+v", f)
	}
	if len(f.Tags) != 0 || f.Image != "" {
		t.Errorf("expected tags and image cleared, got %+v", f)
	}
}

func TestAdminPanelSetStatus(t *testing.T) {
	a := NewAdminPanel()
	if err := a.SetStatus("testing"); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if a.Form().Progress != 80 {
		t.Errorf("expected derived progress 80, got %d", a.Form().Progress)
	}
	if err := a.SetStatus("shipped"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestAdminPanelFields(t *testing.T) {
	a := NewAdminPanel()
	a.Tags.Add("Solar")
	a.Image.Load(strings.NewReader("x"), 1, "image/png")

	f := a.Fields(FormInput{Title: "T", Description: "D"})
	if f.Status != "idea" || f.Priority != "medium" {
		t.Errorf("expected panel defaults, got %s/%s", f.Status, f.Priority)
	}
	if len(f.Tags) != 1 || f.Tags[0] != "solar" {
		t.Errorf("unexpected tags %v", f.Tags)
	}
	if !strings.HasPrefix(f.ImageURL, "data:image/png;base64,") {
		t.Errorf("unexpected image %q", f.ImageURL)
	}
}
