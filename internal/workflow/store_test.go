package workflow

import (
	"errors"
	"testing"
)

func TestCreateSeedsSixIdleSteps(t *testing.T) {
	store := NewStore()
	job := store.Create(Payload{})

	if job.ID == "" {
		t.Fatal("expected a non-empty job id")
	}
	if job.Status != StatusQueued {
		t.Fatalf("status = %q, want %q", job.Status, StatusQueued)
	}
	if len(job.Steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(job.Steps))
	}

	wantOrder := []StepID{StepIdea, StepVoiceover, StepImagery, StepVideo, StepThumbnail, StepYoutube}
	for i, step := range job.Steps {
		if step.ID != wantOrder[i] {
			t.Errorf("step[%d].ID = %q, want %q", i, step.ID, wantOrder[i])
		}
		if step.Status != StepIdle {
			t.Errorf("step[%d].Status = %q, want %q", i, step.Status, StepIdle)
		}
		if step.Label == "" {
			t.Errorf("step[%d] has no label", i)
		}
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	store := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := store.Create(Payload{})
		if seen[job.ID] {
			t.Fatalf("duplicate job id %q", job.ID)
		}
		seen[job.ID] = true
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := NewStore()
	job := store.Create(Payload{})

	snap, ok := store.Get(job.ID)
	if !ok {
		t.Fatal("job not found")
	}

	// Mutating the snapshot must not leak into the store.
	snap.Steps[0].Status = StepDone
	snap.Status = StatusError

	fresh, _ := store.Get(job.ID)
	if fresh.Steps[0].Status != StepIdle {
		t.Fatalf("snapshot mutation leaked into store: step status %q", fresh.Steps[0].Status)
	}
	if fresh.Status != StatusQueued {
		t.Fatalf("snapshot mutation leaked into store: job status %q", fresh.Status)
	}
}

func TestGetUnknownID(t *testing.T) {
	store := NewStore()
	if _, ok := store.Get("nope"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestUpdateUnknownIDReturnsErrNotFound(t *testing.T) {
	store := NewStore()
	_, err := store.Update("nope", func(*Job) {})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStepOverwritesDetail(t *testing.T) {
	store := NewStore()
	job := store.Create(Payload{})

	if _, err := store.SetStep(job.ID, StepIdea, StepRunning, "Fetching ideas"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetStep(job.ID, StepIdea, StepDone, "Script ready (120 words)"); err != nil {
		t.Fatal(err)
	}

	snap, _ := store.Get(job.ID)
	if snap.Steps[0].Status != StepDone {
		t.Fatalf("step status = %q, want %q", snap.Steps[0].Status, StepDone)
	}
	if snap.Steps[0].Detail != "Script ready (120 words)" {
		t.Fatalf("detail = %q, progress note leaked past completion", snap.Steps[0].Detail)
	}
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	store := NewStore()
	job := store.Create(Payload{})

	updated, err := store.SetStatus(job.ID, StatusRunning, "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.UpdatedAt.Before(job.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %v -> %v", job.UpdatedAt, updated.UpdatedAt)
	}
}

func TestListReturnsEveryJob(t *testing.T) {
	store := NewStore()
	for i := 0; i < 3; i++ {
		store.Create(Payload{})
	}
	if got := len(store.List()); got != 3 {
		t.Fatalf("List returned %d jobs, want 3", got)
	}
}
