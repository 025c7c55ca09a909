package migrate

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no embedded migrations found")
	}

	for i, m := range all {
		if i > 0 && all[i-1].Version >= m.Version {
			t.Errorf("migrations out of order: %d before %d", all[i-1].Version, m.Version)
		}
		if strings.TrimSpace(m.UpSQL) == "" {
			t.Errorf("migration %d has empty up SQL", m.Version)
		}
	}

	first := all[0]
	if first.Version != 1 || first.Name != "init" {
		t.Errorf("first migration = %d_%s, want 1_init", first.Version, first.Name)
	}
	if !strings.Contains(first.UpSQL, "reply_comparisons") {
		t.Error("init migration does not create reply_comparisons")
	}
	if !strings.Contains(first.DownSQL, "DROP TABLE") {
		t.Error("init migration has no down SQL")
	}
}

// A thread accrues one comparison row per week/category it appears in, so
// the schema must allow repeated thread_id values.
func TestInitSchema_ThreadIDNotUnique(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	up := all[0].UpSQL

	if strings.Contains(up, "thread_id TEXT PRIMARY KEY") {
		t.Error("thread_id is declared as primary key; repeated threads would violate it")
	}
	if strings.Contains(up, "thread_id TEXT NOT NULL UNIQUE") {
		t.Error("thread_id is declared unique; repeated threads would violate it")
	}
	if !strings.Contains(up, "id INTEGER PRIMARY KEY AUTOINCREMENT") {
		t.Error("reply_comparisons has no surrogate primary key")
	}
	if !strings.Contains(up, "idx_reply_comparisons_thread_id") {
		t.Error("thread_id has no covering index")
	}
}
