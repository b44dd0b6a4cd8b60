package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lumina/internal/catalog"
	"github.com/vovakirdan/lumina/internal/commentary"
	"github.com/vovakirdan/lumina/internal/imagery"
	"github.com/vovakirdan/lumina/internal/progress"
	"github.com/vovakirdan/lumina/internal/puzzle"
	"github.com/vovakirdan/lumina/internal/session"
	"github.com/vovakirdan/lumina/internal/storage"
)

type fakeHistory struct {
	entries []storage.Completion
	err     error
}

func (h *fakeHistory) SaveCompletion(c storage.Completion) (string, error) {
	c.CreatedAt = time.Now()
	h.entries = append([]storage.Completion{c}, h.entries...)
	return fmt.Sprintf("c%d", len(h.entries)), nil
}

func (h *fakeHistory) RecentCompletions(limit int) ([]storage.Completion, error) {
	if h.err != nil {
		return nil, h.err
	}
	return h.entries[:min(limit, len(h.entries))], nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Level{
		{ID: 1, GridSize: 3, ImageKeyword: "mountain", Name: catalog.Localized{EN: "Peaks", ZH: "群山"}},
		{ID: 2, GridSize: 2, ImageKeyword: "ocean", Name: catalog.Localized{EN: "Tide", ZH: "潮汐"}},
	}, 10)
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	return cat
}

func newTestModel(t *testing.T, mutate func(*Options)) Model {
	t.Helper()
	cat := testCatalog(t)
	store := progress.New(progress.NewMemoryBackend(), cat.First().ID)
	store.Load(cat.IDs())

	opts := Options{
		Catalog:  cat,
		Progress: store,
		Images: imagery.New(imagery.Options{
			LocalDir:       t.TempDir(),
			RemoteTemplate: "-",
		}),
		Commentary: commentary.ProviderFunc(func(ctx context.Context, req commentary.Request) (string, error) {
			return "well done, " + req.LevelName, nil
		}),
		Seed:       42,
		Language:   catalog.LangEN,
		StartLevel: -1,
		Width:      100,
		Height:     40,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewModel(opts)
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

// solveWithKeys plays the board through key presses and returns the command
// produced by the winning swap.
func solveWithKeys(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	for range 100 {
		p := m.ctrl.Puzzle()
		var from, to int
		found := false
		for cell := range p.Tiles() {
			occupant, _ := p.TileAt(cell)
			if occupant.InPlace() {
				continue
			}
			// The tile that belongs on cell has id cell
			from, to = cell, p.Tiles()[cell].CurrentIndex
			found = true
			break
		}
		if !found {
			t.Fatal("board solved without a win")
		}

		m.cursor = from
		m, _ = send(t, m, keyPress("enter"))
		m.cursor = to
		var cmd tea.Cmd
		m, cmd = send(t, m, keyPress("enter"))
		if m.ctrl.State() == session.StateWon {
			return m, cmd
		}
	}
	t.Fatal("board not solved after 100 swaps")
	return m, nil
}

func TestMenuStartsFirstLevel(t *testing.T) {
	m := newTestModel(t, nil)
	if m.ctrl.State() != session.StateMenu {
		t.Fatalf("initial state = %v", m.ctrl.State())
	}
	if m.Init() != nil {
		t.Error("menu should not schedule anything on init")
	}

	m, cmd := send(t, m, keyPress("enter"))
	if m.ctrl.State() != session.StatePlaying {
		t.Fatalf("state after enter = %v", m.ctrl.State())
	}
	if cmd == nil {
		t.Error("starting a level should schedule the clock")
	}
	if !m.imagePending {
		t.Error("picture lookup should be pending")
	}
	if !strings.Contains(m.View(), "Peaks") {
		t.Error("board view should name the level")
	}
}

func TestMenuLockedLevel(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = send(t, m, keyPress("down"))
	m, cmd := send(t, m, keyPress("enter"))
	if m.ctrl.State() != session.StateMenu {
		t.Fatalf("locked level started, state = %v", m.ctrl.State())
	}
	if cmd != nil {
		t.Error("locked level should not schedule anything")
	}
	want := fmt.Sprintf(tr(catalog.LangEN, "level_locked"), 2)
	if m.status != want {
		t.Errorf("status = %q, want %q", m.status, want)
	}
}

func TestStartLevelOption(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })
	if m.ctrl.State() != session.StatePlaying {
		t.Fatalf("state = %v", m.ctrl.State())
	}
	if m.Init() == nil {
		t.Error("Init should start the clock")
	}

	locked := newTestModel(t, func(o *Options) { o.StartLevel = 1 })
	if locked.ctrl.State() != session.StateMenu || locked.status == "" {
		t.Errorf("locked start: state %v status %q", locked.ctrl.State(), locked.status)
	}
}

func TestClockTicks(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })
	lease, running := m.ctrl.Lease()
	if !running {
		t.Fatal("clock should run while playing")
	}

	m, cmd := send(t, m, ClockTickMsg{Lease: lease})
	if m.ctrl.Seconds() != 1 || cmd == nil {
		t.Errorf("current tick: seconds %d, cmd %v", m.ctrl.Seconds(), cmd != nil)
	}

	m, cmd = send(t, m, ClockTickMsg{Lease: lease + 7})
	if m.ctrl.Seconds() != 1 || cmd != nil {
		t.Errorf("stale tick: seconds %d, cmd %v", m.ctrl.Seconds(), cmd != nil)
	}

	// Restart invalidates the old chain
	m, _ = send(t, m, keyPress("r"))
	m, cmd = send(t, m, ClockTickMsg{Lease: lease})
	if m.ctrl.Seconds() != 0 || cmd != nil {
		t.Errorf("tick after restart: seconds %d, cmd %v", m.ctrl.Seconds(), cmd != nil)
	}
}

func TestBoardCursorWraps(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })

	m, _ = send(t, m, keyPress("k"))
	if m.cursor != 6 {
		t.Errorf("cursor after up from 0 = %d, want 6", m.cursor)
	}
	m, _ = send(t, m, keyPress("h"))
	if m.cursor != 8 {
		t.Errorf("cursor after left = %d, want 8", m.cursor)
	}
	m, _ = send(t, m, keyPress("right"))
	if m.cursor != 6 {
		t.Errorf("cursor after right = %d, want 6", m.cursor)
	}
}

func TestBoardSelectAndPeek(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })

	m, _ = send(t, m, keyPress("p"))
	if !m.peek {
		t.Fatal("p should toggle peek on")
	}

	tile, _ := m.ctrl.Puzzle().TileAt(0)
	m, _ = send(t, m, keyPress("enter"))
	if m.peek {
		t.Error("selecting should end the peek")
	}
	if id, ok := m.ctrl.Puzzle().Selected(); !ok || id != tile.ID {
		t.Errorf("Selected() = %d %v, want %d", id, ok, tile.ID)
	}

	// Same tile again clears the selection
	m, _ = send(t, m, keyPress("enter"))
	if _, ok := m.ctrl.Puzzle().Selected(); ok {
		t.Error("selection should be cleared")
	}
	if m.ctrl.Moves() != 0 {
		t.Errorf("Moves() = %d", m.ctrl.Moves())
	}
}

func TestSolveRecordsAndComments(t *testing.T) {
	hist := &fakeHistory{}
	m := newTestModel(t, func(o *Options) {
		o.StartLevel = 0
		o.History = hist
	})

	m, cmd := solveWithKeys(t, m)
	res, ok := m.ctrl.Result()
	if !ok {
		t.Fatal("no result after solving")
	}
	if res.UnlockedLevel != 2 || !m.ctrl.Progress().IsUnlocked(2) {
		t.Errorf("level 2 not unlocked: %+v", res)
	}
	if len(hist.entries) != 1 || hist.entries[0].LevelID != 1 {
		t.Errorf("history = %+v", hist.entries)
	}
	if !m.commentPending || cmd == nil {
		t.Fatal("solving should request commentary")
	}
	if !strings.Contains(m.View(), tr(catalog.LangEN, "thinking")) {
		t.Error("won view should show the pending commentary")
	}

	msg := cmd()
	m, _ = send(t, m, msg)
	text, ok := m.ctrl.Commentary()
	if !ok || text != "well done, Peaks" {
		t.Errorf("Commentary() = %q %v", text, ok)
	}
	if m.commentPending {
		t.Error("commentary should no longer be pending")
	}
}

func TestStaleCommentaryDropped(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })
	m, cmd := solveWithKeys(t, m)
	msg := cmd()

	// Replaying starts a new attempt before the reply arrives
	m, _ = send(t, m, keyPress("r"))
	if m.ctrl.State() != session.StatePlaying {
		t.Fatalf("state after replay = %v", m.ctrl.State())
	}
	m, _ = send(t, m, msg)
	if _, ok := m.ctrl.Commentary(); ok {
		t.Error("commentary from the previous attempt was accepted")
	}
}

func TestFailingCommentaryFallsBack(t *testing.T) {
	m := newTestModel(t, func(o *Options) {
		o.StartLevel = 0
		o.Commentary = commentary.ProviderFunc(func(context.Context, commentary.Request) (string, error) {
			return "", errors.New("quota exceeded")
		})
	})
	m, cmd := solveWithKeys(t, m)
	m, _ = send(t, m, cmd())

	text, _ := m.ctrl.Commentary()
	if text != commentary.FailedText(catalog.LangEN) {
		t.Errorf("Commentary() = %q", text)
	}
}

func TestNextOnLastLevelReturnsHome(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })
	m, _ = solveWithKeys(t, m)

	m, _ = send(t, m, keyPress("n"))
	if m.ctrl.State() != session.StatePlaying || m.ctrl.Level().ID != 2 {
		t.Fatalf("next: state %v level %d", m.ctrl.State(), m.ctrl.Level().ID)
	}

	m, _ = solveWithKeys(t, m)
	m, _ = send(t, m, keyPress("enter"))
	if m.ctrl.State() != session.StateMenu {
		t.Fatalf("state after last level = %v", m.ctrl.State())
	}
	if m.status != tr(catalog.LangEN, "all_done") {
		t.Errorf("status = %q", m.status)
	}
	if m.menuCursor != 1 {
		t.Errorf("menu cursor = %d, want 1", m.menuCursor)
	}
}

func TestImageMessages(t *testing.T) {
	m := newTestModel(t, func(o *Options) { o.StartLevel = 0 })
	gen := m.ctrl.Generation()

	res := imagery.Resolution{URI: "file:///tmp/2.jpg", Source: imagery.SourceLocal}
	m, _ = send(t, m, imageMsg{gen: 0, levelID: 2, res: res})
	if !m.imagePending {
		t.Error("a prefetch must not clear the pending lookup")
	}
	if m.images[2] != res {
		t.Error("prefetched picture should be cached")
	}

	m, _ = send(t, m, imageMsg{gen: gen, levelID: 1, res: imagery.Exhausted})
	if m.imagePending {
		t.Error("current lookup should clear pending")
	}
	if _, ok := m.images[1]; ok {
		t.Error("exhausted lookups should not be cached")
	}
}

func TestPreferenceToggles(t *testing.T) {
	backend := progress.NewMemoryBackend()
	m := newTestModel(t, func(o *Options) {
		o.Preferences = backend
		o.Language = ""
	})
	if m.prefs.Language != catalog.LangZH {
		t.Fatalf("default language = %q", m.prefs.Language)
	}

	m, _ = send(t, m, keyPress("L"))
	m, _ = send(t, m, keyPress("T"))

	got := progress.LoadPreferences(backend)
	want := progress.Preferences{Language: catalog.LangEN, Theme: progress.ThemeLight}
	if got != want {
		t.Errorf("stored preferences = %+v, want %+v", got, want)
	}
	if m.theme.TileMark != LightTheme().TileMark {
		t.Error("theme not switched")
	}
}

func TestHistoryScreen(t *testing.T) {
	hist := &fakeHistory{entries: []storage.Completion{
		{ID: "a", LevelID: 1, Score: 12345, Stars: 3, Moves: 9, Seconds: 75, NewBest: true, CreatedAt: time.Now()},
	}}
	m := newTestModel(t, func(o *Options) { o.History = hist })

	m, _ = send(t, m, keyPress("tab"))
	if !m.showHistory {
		t.Fatal("tab should open the history")
	}
	view := m.View()
	for _, want := range []string{"12345*", "1 Peaks", "1:15"} {
		if !strings.Contains(view, want) {
			t.Errorf("history view missing %q", want)
		}
	}

	m, _ = send(t, m, keyPress("esc"))
	if m.showHistory {
		t.Error("esc should close the history")
	}
}

func TestHistoryMessages(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name  string
		store HistoryStore
		want  string
	}{
		{"no store", nil, tr(catalog.LangEN, "no_store")},
		{"empty", &fakeHistory{}, "No completions recorded yet."},
		{"load error", &fakeHistory{err: errors.New("locked database")}, "locked database"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistoryModel(tt.store, cat, catalog.LangEN, 100, 30)
			if !strings.Contains(h.View(), tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
		})
	}
}

func TestTileSize(t *testing.T) {
	tests := []struct {
		n, width, height int
	}{
		{3, 80, 24},
		{5, 200, 60},
		{10, 40, 12},
	}

	for _, tt := range tests {
		w, h := tileSize(tt.n, tt.width, tt.height)
		if w < minTileW || w > maxTileW || h < 1 {
			t.Errorf("tileSize(%d, %d, %d) = %d x %d", tt.n, tt.width, tt.height, w, h)
		}
	}
}

func TestRenderBoardPlacesTiles(t *testing.T) {
	p, err := puzzle.New(2, puzzle.ModePreview, nil)
	if err != nil {
		t.Fatalf("puzzle.New() failed: %v", err)
	}
	v := boardView{tiles: p.Tiles(), gridSize: 2, cursor: -1, selected: -1, labels: true}
	out := renderBoard(v, NewPicture("ocean", 2), DarkTheme(), 4, 1)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for i, want := range []string{"1", "3"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("row %d missing label %s: %q", i, want, lines[i])
		}
	}
}

func TestStarString(t *testing.T) {
	tests := []struct {
		stars int
		want  string
	}{
		{0, "☆☆☆"},
		{2, "★★☆"},
		{5, "★★★"},
	}
	for _, tt := range tests {
		if got := starString(tt.stars); got != tt.want {
			t.Errorf("starString(%d) = %q, want %q", tt.stars, got, tt.want)
		}
	}
	if formatDuration(125) != "2:05" {
		t.Errorf("formatDuration(125) = %q", formatDuration(125))
	}
}
