package postgres

import (
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyos/internal/models"
)

// TestStore_Integration runs against a real server.
// Example: POSTGRES_TEST_URL="postgres://dailyos_user@localhost:5432/dailyos_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// A fresh user per run keeps reruns independent of leftover rows.
	userID := "it-" + uuid.NewString()

	t.Run("Days", func(t *testing.T) {
		first, err := store.GetOrCreateDay(userID, "2026-10-17")
		if err != nil {
			t.Fatalf("GetOrCreateDay failed: %v", err)
		}
		second, err := store.GetOrCreateDay(userID, "2026-10-17")
		if err != nil {
			t.Fatalf("GetOrCreateDay failed: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected one day row, got %s and %s", first.ID, second.ID)
		}
	})

	t.Run("Checklist", func(t *testing.T) {
		wu, err := store.CreateWorkUnit(models.WorkUnit{UserID: userID, Title: "Integration"})
		if err != nil {
			t.Fatalf("CreateWorkUnit failed: %v", err)
		}
		for want := 0; want < 3; want++ {
			item, err := store.AddChecklistItem(wu.ID, "step", nil)
			if err != nil {
				t.Fatalf("AddChecklistItem failed: %v", err)
			}
			if item.Position != want {
				t.Errorf("expected position %d, got %d", want, item.Position)
			}
		}
		if err := store.DeleteWorkUnit(userID, wu.ID); err != nil {
			t.Fatalf("DeleteWorkUnit failed: %v", err)
		}
		items, err := store.ListChecklistItems(wu.ID)
		if err != nil {
			t.Fatalf("ListChecklistItems failed: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected cascade delete, %d items remain", len(items))
		}
	})

	t.Run("Checkpoints", func(t *testing.T) {
		day, err := store.GetOrCreateDay(userID, "2026-10-16")
		if err != nil {
			t.Fatal(err)
		}
		for _, mood := range []models.Mood{models.MoodGood, models.MoodStuck} {
			if _, err := store.UpsertCheckpoint(models.Checkpoint{UserID: userID, DayID: day.ID, Mood: mood}); err != nil {
				t.Fatalf("UpsertCheckpoint failed: %v", err)
			}
		}
		rows, err := store.ListCheckpointsInRange(userID, "2026-10-01", "2026-10-31")
		if err != nil {
			t.Fatalf("ListCheckpointsInRange failed: %v", err)
		}
		if len(rows) != 1 || rows[0].Mood != models.MoodStuck {
			t.Errorf("expected one replaced checkpoint, got %+v", rows)
		}
	})
}
