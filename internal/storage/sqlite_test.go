package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreGetPut(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("level_1"); err != nil || ok {
		t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
	}

	if err := store.Put("level_1", `{"best":10}`); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("level_1", `{"best":20}`); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	v, ok, err := store.Get("level_1")
	if err != nil || !ok {
		t.Fatalf("Get() = ok:%v err:%v", ok, err)
	}
	if v != `{"best":20}` {
		t.Errorf("Get() = %q", v)
	}
}

func TestStorePutBatch(t *testing.T) {
	store := openTestStore(t)

	err := store.PutBatch(map[string]string{
		"level_1": "a",
		"level_2": "b",
	})
	if err != nil {
		t.Fatalf("PutBatch() failed: %v", err)
	}

	for key, want := range map[string]string{"level_1": "a", "level_2": "b"} {
		got, ok, err := store.Get(key)
		if err != nil || !ok || got != want {
			t.Errorf("Get(%q) = %q ok:%v err:%v", key, got, ok, err)
		}
	}

	if err := store.PutBatch(nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}

func TestStoreBatchAfterCloseFails(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	store.Close()

	if err := store.PutBatch(map[string]string{"k": "v"}); err == nil {
		t.Error("expected error writing to closed store")
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)
	store.Put("lumina_theme", "light")

	if err := store.Delete("lumina_theme", "missing"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := store.Get("lumina_theme"); ok {
		t.Error("key should be gone")
	}
}

func TestStoreCompletions(t *testing.T) {
	store := openTestStore(t)

	scores := []int{9000, 12000, 10500}
	for i, score := range scores {
		id, err := store.SaveCompletion(Completion{
			LevelID: 1,
			Score:   score,
			Stars:   3,
			Moves:   10 + i,
			Seconds: 30,
			NewBest: i == 1,
		})
		if err != nil {
			t.Fatalf("SaveCompletion() failed: %v", err)
		}
		if id == "" {
			t.Fatal("expected generated id")
		}
	}
	store.SaveCompletion(Completion{LevelID: 2, Score: 20000, Stars: 3})

	top, err := store.TopCompletions(1, 10)
	if err != nil {
		t.Fatalf("TopCompletions() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 completions, got %d", len(top))
	}
	if top[0].Score != 12000 || top[1].Score != 10500 || top[2].Score != 9000 {
		t.Errorf("completions not sorted by score: %+v", top)
	}
	if !top[0].NewBest || top[1].NewBest {
		t.Error("NewBest flag not round-tripped")
	}

	recent, err := store.RecentCompletions(2)
	if err != nil {
		t.Fatalf("RecentCompletions() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent completions, got %d", len(recent))
	}
	if recent[0].LevelID != 2 {
		t.Errorf("most recent completion should be level 2, got %d", recent[0].LevelID)
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/tmp/x.db")
	if err != nil || got != "/tmp/x.db" {
		t.Errorf("ExpandHome(abs) = %q, %v", got, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/.lumina/progress.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if got != filepath.Join(home, ".lumina", "progress.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
}
