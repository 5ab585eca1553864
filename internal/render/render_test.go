package render

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/innovation-earth/iepsite/internal/catalog"
	"github.com/innovation-earth/iepsite/internal/logging"
	"github.com/innovation-earth/iepsite/internal/projects"
)

func setupViews(t *testing.T) *Views {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	v, err := NewViews(cat)
	if err != nil {
		t.Fatalf("NewViews: %v", err)
	}
	return v
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	return doc
}

type staticSource struct {
	items []projects.Project
	err   error
}

func (s staticSource) List(context.Context) ([]projects.Project, error) { return s.items, s.err }

// recordingRegion keeps every replacement in order.
type recordingRegion struct {
	mu     sync.Mutex
	writes []string
}

func (r *recordingRegion) Replace(_ context.Context, html string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, html)
	return nil
}

func (r *recordingRegion) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return ""
	}
	return r.writes[len(r.writes)-1]
}

func sampleProjects() []projects.Project {
	return []projects.Project{
		{
			ID: "b", Title: "Solar Bench", Description: "Charging **everywhere**",
			Status: projects.StatusDevelopment, Priority: projects.PriorityHigh, Progress: 60,
			Tags: []string{"energy", "parks"}, URL: "https://example.org/bench",
			CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "a", Title: "Urban Garden", Description: "Grow food",
			Status: projects.StatusPlanning, Priority: projects.PriorityMedium, Progress: 30,
			CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestProjectListEmptyState(t *testing.T) {
	v := setupViews(t)
	out, err := v.ProjectList(nil, nil)
	if err != nil {
		t.Fatalf("ProjectList: %v", err)
	}
	doc := parse(t, out)
	if got := doc.Find(".empty-state h3").Text(); got != "No Projects Yet" {
		t.Errorf("unexpected heading %q", got)
	}
	if got := doc.Find(".empty-state p").Text(); got != "Start by adding your first project!" {
		t.Errorf("unexpected copy %q", got)
	}
	if doc.Find(`.empty-state button[data-action="admin_toggle"]`).Length() != 1 {
		t.Error("expected a button that opens the admin panel")
	}
	if doc.Find(".project-card").Length() != 0 {
		t.Error("empty state must not contain cards")
	}
}

func TestProjectListErrorState(t *testing.T) {
	v := setupViews(t)
	out, err := v.ProjectList(nil, errors.New("store offline"))
	if err != nil {
		t.Fatalf("ProjectList: %v", err)
	}
	doc := parse(t, out)
	if got := doc.Find(".error-state h3").Text(); got != "Error Loading Projects" {
		t.Errorf("unexpected heading %q", got)
	}
	if got := doc.Find(".error-state p").Text(); got != "store offline" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestProjectListCards(t *testing.T) {
	v := setupViews(t)
	out, err := v.ProjectList(sampleProjects(), nil)
	if err != nil {
		t.Fatalf("ProjectList: %v", err)
	}
	doc := parse(t, out)

	cards := doc.Find(".project-card")
	if cards.Length() != 2 {
		t.Fatalf("expected 2 cards, got %d", cards.Length())
	}
	first := cards.First()
	if id, _ := first.Attr("data-id"); id != "b" {
		t.Errorf("expected input order preserved, first card %q", id)
	}
	if got := first.Find(".status-badge").Text(); got != "In Development" {
		t.Errorf("unexpected status label %q", got)
	}
	if got := first.Find(".priority-badge").Text(); got != "High" {
		t.Errorf("unexpected priority label %q", got)
	}
	if first.Find(".project-description strong").Text() != "everywhere" {
		t.Error("expected description rendered as markdown")
	}
	if first.Find(".project-tags .tag").Length() != 2 {
		t.Error("expected two tags")
	}
	if href, _ := first.Find("a.btn-success").Attr("href"); href != "https://example.org/bench" {
		t.Errorf("unexpected link %q", href)
	}
	if style, _ := first.Find(".progress-fill").Attr("style"); !strings.Contains(style, "60%") {
		t.Errorf("unexpected progress style %q", style)
	}

	second := cards.Eq(1)
	if second.Find("a.btn-success").Length() != 0 {
		t.Error("project without url must not render a link")
	}
	if second.Find(".project-tags").Length() != 0 {
		t.Error("project without tags must not render a tag block")
	}
}

func TestProjectListIdempotent(t *testing.T) {
	v := setupViews(t)
	a, _ := v.ProjectList(sampleProjects(), nil)
	b, _ := v.ProjectList(sampleProjects(), nil)
	if a != b {
		t.Error("rendering the same data twice must produce identical html")
	}
}

func TestProjectCardSanitizesUntrustedInput(t *testing.T) {
	md := NewMarkdown()
	card := NewProjectCard(projects.Project{
		Title:       "<script>alert(1)</script>",
		Description: "hi <img src=x onerror=alert(1)> [x](javascript:alert(1))",
		URL:         "javascript:alert(1)",
		ImageURL:    "data:text/html;base64,PHNjcmlwdD4=",
		Status:      projects.StatusIdea,
		Priority:    projects.PriorityLow,
	}, md)

	if card.Link != "" {
		t.Errorf("javascript link must be dropped, got %q", card.Link)
	}
	if card.ImageURL != "" {
		t.Errorf("non-image data url must be dropped, got %q", card.ImageURL)
	}
	desc := string(card.Description)
	if strings.Contains(desc, "onerror") || strings.Contains(desc, "javascript:") {
		t.Errorf("unsafe markup survived: %s", desc)
	}

	v := setupViews(t)
	out, _ := v.ProjectList([]projects.Project{{ID: "x", Title: "<script>alert(1)</script>", Description: "d"}}, nil)
	if strings.Contains(out, "<script>") {
		t.Error("title must be escaped")
	}
}

func TestProjectCardKeepsImageDataURL(t *testing.T) {
	card := NewProjectCard(projects.Project{
		Title: "t", Description: "d", ImageURL: "data:image/png;base64,iVBORw0KGgo=",
	}, NewMarkdown())
	if card.ImageURL != "data:image/png;base64,iVBORw0KGgo=" {
		t.Errorf("expected image data url kept, got %q", card.ImageURL)
	}
}

func TestListRendererRefresh(t *testing.T) {
	v := setupViews(t)
	region := &recordingRegion{}
	lr := NewListRenderer(staticSource{items: sampleProjects()}, region, v, logging.NewNop())

	if err := lr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(region.writes) != 2 {
		t.Fatalf("expected loading then list, got %d writes", len(region.writes))
	}
	if !strings.Contains(region.writes[0], `data-state="loading"`) {
		t.Error("first write should be the loading state")
	}
	if parse(t, region.last()).Find(".project-card").Length() != 2 {
		t.Error("expected two cards after refresh")
	}
}

func TestListRendererRefreshError(t *testing.T) {
	v := setupViews(t)
	region := &recordingRegion{}
	boom := errors.New("boom")
	lr := NewListRenderer(staticSource{err: boom}, region, v, logging.NewNop())

	if err := lr.Refresh(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected load error returned, got %v", err)
	}
	if parse(t, region.last()).Find(".error-state").Length() != 1 {
		t.Error("expected error state rendered")
	}
}

// gatedSource blocks the first List call until released.
type gatedSource struct {
	first   chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (g *gatedSource) List(context.Context) ([]projects.Project, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()
	if n == 1 {
		close(g.first)
		<-g.release
		return sampleProjects()[:1], nil
	}
	return sampleProjects(), nil
}

func TestListRendererDropsStaleResult(t *testing.T) {
	v := setupViews(t)
	region := &recordingRegion{}
	src := &gatedSource{first: make(chan struct{}), release: make(chan struct{})}
	lr := NewListRenderer(src, region, v, logging.NewNop())

	done := make(chan error)
	go func() { done <- lr.Refresh(context.Background()) }()
	<-src.first

	if err := lr.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	if n := parse(t, region.last()).Find(".project-card").Length(); n != 2 {
		t.Errorf("stale result overwrote newer list: %d cards", n)
	}
}

func TestListRendererLoadSupersededToken(t *testing.T) {
	v := setupViews(t)
	region := &recordingRegion{}
	boom := errors.New("boom")
	lr := NewListRenderer(staticSource{err: boom}, region, v, logging.NewNop())

	old, err := lr.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := lr.Begin(context.Background()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := lr.Load(context.Background(), old); err != nil {
		t.Errorf("superseded load must not report its error, got %v", err)
	}

	region.mu.Lock()
	n := len(region.writes)
	region.mu.Unlock()
	if n != 2 {
		t.Errorf("expected only the two loading blocks, got %d writes", n)
	}
	if parse(t, region.last()).Find(`[data-state="loading"]`).Length() != 1 {
		t.Error("superseded load overwrote the loading state")
	}
}

func TestCatalogViews(t *testing.T) {
	v := setupViews(t)

	out, err := v.Initiatives()
	if err != nil {
		t.Fatalf("Initiatives: %v", err)
	}
	doc := parse(t, out)
	if doc.Find(".category-tab").Length() != 4 {
		t.Errorf("expected 4 initiative tabs, got %d", doc.Find(".category-tab").Length())
	}
	if doc.Find("#concepts .project-card").Length() != 2 {
		t.Error("expected two concept cards")
	}
	if doc.Find(".category-tab.active").Text() != "Project Concepts" {
		t.Error("expected first tab active with its display name")
	}

	out, err = v.Competitions()
	if err != nil {
		t.Fatalf("Competitions: %v", err)
	}
	doc = parse(t, out)
	if n := doc.Find(".no-content-message h3").Length(); n != 5 {
		t.Errorf("expected an empty state per competition category, got %d", n)
	}
	if !strings.Contains(doc.Find("#business-plan strong").Text(), "Business & Entrepreneurship") {
		t.Error("expected display name in empty state")
	}

	out, err = v.Roles()
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	doc = parse(t, out)
	if got := doc.Find("#coding .role-skills").Text(); !strings.Contains(got, "HTML/CSS, JavaScript, React") {
		t.Errorf("unexpected skills %q", got)
	}
}
