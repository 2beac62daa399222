package services

import (
	"context"
	"github.com/MonsefRH/E-learn/domain"
	"github.com/MonsefRH/E-learn/infrastructure/adapters"
	"github.com/google/uuid"
	"os"
	"testing"
	"time"
)

func TestArtifactJanitor_Sweep(t *testing.T) {
	layout := domain.NewArtifactLayout(t.TempDir())
	lock := adapters.NewFileJobLock(newTestLogger(), layout)
	janitor := NewArtifactJanitor(newTestLogger(), layout, lock, time.Hour)

	stale := layout.Job(uuid.New())
	busy := layout.Job(uuid.New())
	for _, paths := range []domain.JobPaths{stale, busy} {
		if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{paths.Image(1), paths.Clip(1), paths.FinalVideo()} {
			if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	for _, name := range []string{stale.Image(1), stale.FinalVideo(), busy.Image(1)} {
		if err := os.Chtimes(name, old, old); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(layout.Root+"/not-a-job", 0o755); err != nil {
		t.Fatal(err)
	}

	busyID := uuid.MustParse(busy.RequestID)
	release, err := lock.Acquire(context.Background(), busyID)
	if err != nil {
		t.Fatal("Failed to lock:", err)
	}
	defer release()

	report, err := janitor.Sweep(context.Background())
	if err != nil {
		t.Fatal("Failed to sweep:", err)
	}
	if report.JobsScanned != 2 || report.JobsSkipped != 1 || report.FilesRemoved != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := os.Stat(stale.Image(1)); !os.IsNotExist(err) {
		t.Fatal("stale image must be removed")
	}
	if _, err := os.Stat(stale.Clip(1)); err != nil {
		t.Fatal("fresh clip must be kept:", err)
	}
	if _, err := os.Stat(stale.FinalVideo()); err != nil {
		t.Fatal("final video is never swept:", err)
	}
	if _, err := os.Stat(busy.Image(1)); err != nil {
		t.Fatal("locked job must be left alone:", err)
	}
}

func TestArtifactJanitor_MissingRoot(t *testing.T) {
	layout := domain.NewArtifactLayout(t.TempDir() + "/absent")
	janitor := NewArtifactJanitor(newTestLogger(), layout, adapters.NewFileJobLock(newTestLogger(), layout), time.Hour)
	report, err := janitor.Sweep(context.Background())
	if err != nil || report.JobsScanned != 0 {
		t.Fatalf("unexpected %+v %v", report, err)
	}
}
