package workspace

import (
	"os"
	"testing"
	"time"
)

func TestAllocateCreatesTrackedDirectory(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, 0)

	dir, err := m.Allocate("job-1")
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", dir)
	}

	got, ok := m.Path("job-1")
	if !ok || got != dir {
		t.Fatalf("Path = (%q, %v), want (%q, true)", got, ok, dir)
	}
}

func TestAllocateIsolatesJobs(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, 0)

	a, err := m.Allocate("job-a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := m.Allocate("job-b")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("both jobs got workspace %q", a)
	}
}

func TestReclaimRemovesDirectory(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, 0)

	dir, err := m.Allocate("job-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/final-video.mp4", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.Reclaim("job-1")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("workspace still exists after reclaim: %v", err)
	}
	if _, ok := m.Path("job-1"); ok {
		t.Fatal("reclaimed workspace still tracked")
	}
}

func TestReclaimUnknownJobIsNoop(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, 0)
	m.Reclaim("never-allocated")
}

func TestSweepHonorsPredicate(t *testing.T) {
	m := NewManager(t.TempDir(), time.Hour, 0)

	oldDir, err := m.Allocate("old-job")
	if err != nil {
		t.Fatal(err)
	}
	freshDir, err := m.Allocate("fresh-job")
	if err != nil {
		t.Fatal(err)
	}

	removed := m.Sweep(func(jobID string) bool { return jobID == "old-job" })
	if removed != 1 {
		t.Fatalf("Sweep removed %d workspaces, want 1", removed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Fatal("expired workspace survived the sweep")
	}
	if _, err := os.Stat(freshDir); err != nil {
		t.Fatalf("fresh workspace was swept: %v", err)
	}
}

func TestRetention(t *testing.T) {
	m := NewManager(t.TempDir(), 36*time.Hour, 0)
	if got := m.Retention(); got != 36*time.Hour {
		t.Fatalf("Retention = %v, want 36h", got)
	}
}
