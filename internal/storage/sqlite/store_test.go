package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/models"
)

// setupTestSQLiteStore returns an initialized store with a clock that ticks
// one second per read so updated_at ordering is deterministic.
func setupTestSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))

	clock := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustWorkUnit(t *testing.T, s *Store, userID, title string) models.WorkUnit {
	t.Helper()
	wu, err := s.CreateWorkUnit(models.WorkUnit{UserID: userID, Title: title})
	if err != nil {
		t.Fatalf("CreateWorkUnit(%q) failed: %v", title, err)
	}
	return wu
}

func TestTableExists(t *testing.T) {
	store := setupTestSQLiteStore(t)

	for _, table := range []string{"work_units", "CHECKLIST_ITEMS", "days", "daily_nails", "checkpoints", "schema_version"} {
		exists, err := store.TableExists(table)
		if err != nil {
			t.Fatalf("TableExists(%q) error: %v", table, err)
		}
		if !exists {
			t.Errorf("TableExists(%q) = false, want true", table)
		}
	}

	exists, err := store.TableExists("tasks")
	if err != nil {
		t.Fatalf("TableExists() error: %v", err)
	}
	if exists {
		t.Error("TableExists() = true for a table that was never created")
	}
}

func TestLoadLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dailyos.db")

	if err := NewStore(path).Load(); err == nil {
		t.Fatal("Load() should fail before Init")
	}

	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if _, err := first.CreateWorkUnit(models.WorkUnit{UserID: "u1", Title: "Ship it"}); err != nil {
		t.Fatalf("CreateWorkUnit() error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Init again is a no-op on an up-to-date schema.
	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init() error: %v", err)
	}
	again.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	defer second.Close()

	units, err := second.ListWorkUnits("u1")
	if err != nil || len(units) != 1 {
		t.Fatalf("ListWorkUnits() = %v, %v; want the unit written before reopening", units, err)
	}
	if second.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", second.GetConfigPath(), path)
	}
}

func TestWorkUnitCRUD(t *testing.T) {
	store := setupTestSQLiteStore(t)

	wu := mustWorkUnit(t, store, "u1", "Write the report")
	if wu.ID == "" || wu.Status != models.WorkUnitActive {
		t.Fatalf("CreateWorkUnit() = %+v, want id and active status", wu)
	}

	wu.Outcome = "A report the team can act on"
	wu.Status = models.WorkUnitCompleted
	done := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	wu.CompletedAt = &done
	updated, err := store.UpdateWorkUnit(wu)
	if err != nil {
		t.Fatalf("UpdateWorkUnit() error: %v", err)
	}
	if updated.Outcome != wu.Outcome || updated.Status != models.WorkUnitCompleted {
		t.Errorf("UpdateWorkUnit() = %+v", updated)
	}
	if updated.CompletedAt == nil || !updated.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", updated.CompletedAt, done)
	}
	if !updated.UpdatedAt.After(wu.UpdatedAt) {
		t.Errorf("UpdatedAt not bumped: %v -> %v", wu.UpdatedAt, updated.UpdatedAt)
	}

	if _, err := store.GetWorkUnit("someone-else", wu.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetWorkUnit() for another user error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteWorkUnit("someone-else", wu.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DeleteWorkUnit() for another user error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteWorkUnit("u1", wu.ID); err != nil {
		t.Fatalf("DeleteWorkUnit() error: %v", err)
	}
	if _, err := store.GetWorkUnit("u1", wu.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetWorkUnit() after delete error = %v, want ErrNotFound", err)
	}
}

func TestListWorkUnitsOrderAndFilter(t *testing.T) {
	store := setupTestSQLiteStore(t)

	mustWorkUnit(t, store, "u1", "A")
	b := mustWorkUnit(t, store, "u1", "B")
	c := mustWorkUnit(t, store, "u1", "C")
	mustWorkUnit(t, store, "u2", "not mine")

	c.Status = models.WorkUnitArchived
	if _, err := store.UpdateWorkUnit(c); err != nil {
		t.Fatal(err)
	}
	b.Status = models.WorkUnitParked
	if _, err := store.UpdateWorkUnit(b); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListWorkUnits("u1")
	if err != nil {
		t.Fatalf("ListWorkUnits() error: %v", err)
	}
	if got := titles(all); got != "B,C,A" {
		t.Errorf("ListWorkUnits() order = %s, want B,C,A (most recently updated first)", got)
	}

	open, err := store.ListWorkUnits("u1", models.OpenStatuses...)
	if err != nil {
		t.Fatalf("ListWorkUnits(open) error: %v", err)
	}
	if got := titles(open); got != "B,A" {
		t.Errorf("ListWorkUnits(open) = %s, want B,A", got)
	}
}

func titles(units []models.WorkUnit) string {
	out := ""
	for i, wu := range units {
		if i > 0 {
			out += ","
		}
		out += wu.Title
	}
	return out
}

func TestChecklistPositions(t *testing.T) {
	store := setupTestSQLiteStore(t)
	wu := mustWorkUnit(t, store, "u1", "Checklist owner")

	var items []models.ChecklistItem
	for _, label := range []string{"first", "second", "third"} {
		item, err := store.AddChecklistItem(wu.ID, label, nil)
		if err != nil {
			t.Fatalf("AddChecklistItem(%q) error: %v", label, err)
		}
		items = append(items, item)
	}
	for i, item := range items {
		if item.Position != i {
			t.Errorf("%s position = %d, want %d", item.Label, item.Position, i)
		}
	}

	if err := store.DeleteChecklistItem(items[1].ID); err != nil {
		t.Fatalf("DeleteChecklistItem() error: %v", err)
	}
	fourth, err := store.AddChecklistItem(wu.ID, "fourth", nil)
	if err != nil {
		t.Fatalf("AddChecklistItem() error: %v", err)
	}
	if fourth.Position != 3 {
		t.Errorf("append after delete position = %d, want 3 (max+1, no renumbering)", fourth.Position)
	}

	list, err := store.ListChecklistItems(wu.ID)
	if err != nil {
		t.Fatalf("ListChecklistItems() error: %v", err)
	}
	var positions []int
	for _, item := range list {
		positions = append(positions, item.Position)
	}
	if len(positions) != 3 || positions[0] != 0 || positions[1] != 2 || positions[2] != 3 {
		t.Errorf("positions = %v, want [0 2 3]", positions)
	}

	explicit := 10
	pinned, err := store.AddChecklistItem(wu.ID, "pinned", &explicit)
	if err != nil || pinned.Position != 10 {
		t.Errorf("AddChecklistItem(explicit) = %+v, %v", pinned, err)
	}
}

func TestChecklistToggleAndCascade(t *testing.T) {
	store := setupTestSQLiteStore(t)
	wu := mustWorkUnit(t, store, "u1", "Owner")

	item, err := store.AddChecklistItem(wu.ID, "step", nil)
	if err != nil {
		t.Fatal(err)
	}
	item.IsDone = true
	toggled, err := store.UpdateChecklistItem(item)
	if err != nil {
		t.Fatalf("UpdateChecklistItem() error: %v", err)
	}
	if !toggled.IsDone || toggled.Position != item.Position {
		t.Errorf("UpdateChecklistItem() = %+v", toggled)
	}

	if err := store.DeleteWorkUnit("u1", wu.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetChecklistItem(item.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("checklist item survived its work unit: %v", err)
	}
}

func TestGetOrCreateDayIdempotent(t *testing.T) {
	store := setupTestSQLiteStore(t)

	first, err := store.GetOrCreateDay("u1", "2026-10-17")
	if err != nil {
		t.Fatalf("GetOrCreateDay() error: %v", err)
	}
	second, err := store.GetOrCreateDay("u1", "2026-10-17")
	if err != nil {
		t.Fatalf("second GetOrCreateDay() error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("GetOrCreateDay() created two rows: %s and %s", first.ID, second.ID)
	}
	if first.HasSelection() || first.DailyIntent != "" {
		t.Errorf("new day not empty: %+v", first)
	}

	other, err := store.GetOrCreateDay("u2", "2026-10-17")
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == first.ID {
		t.Error("days are not scoped by user")
	}

	days, err := store.ListDaysInRange("u1", "2026-10-01", "2026-10-31")
	if err != nil || len(days) != 1 {
		t.Errorf("ListDaysInRange() = %d rows, %v; want 1", len(days), err)
	}
}

func TestUpsertDaySelection(t *testing.T) {
	store := setupTestSQLiteStore(t)
	wu := mustWorkUnit(t, store, "u1", "Focus")

	day, err := store.UpsertDaySelection("u1", "2026-10-17", &wu.ID)
	if err != nil {
		t.Fatalf("UpsertDaySelection() error: %v", err)
	}
	if !day.HasSelection() || *day.SelectedWorkUnitID != wu.ID {
		t.Fatalf("selection not stored: %+v", day)
	}

	again, err := store.UpsertDaySelection("u1", "2026-10-17", nil)
	if err != nil {
		t.Fatalf("clearing selection error: %v", err)
	}
	if again.ID != day.ID || again.HasSelection() {
		t.Errorf("clearing selection = %+v, want same day without selection", again)
	}

	// Deleting the selected unit leaves the day in place without a selection.
	if _, err := store.UpsertDaySelection("u1", "2026-10-17", &wu.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteWorkUnit("u1", wu.ID); err != nil {
		t.Fatal(err)
	}
	after, err := store.GetDay("u1", "2026-10-17")
	if err != nil {
		t.Fatalf("GetDay() error: %v", err)
	}
	if after.HasSelection() {
		t.Errorf("selection survived work unit delete: %+v", after)
	}
}

func TestIntentAndHorizons(t *testing.T) {
	store := setupTestSQLiteStore(t)
	day, err := store.GetOrCreateDay("u1", "2026-10-17")
	if err != nil {
		t.Fatal(err)
	}

	day, err = store.UpdateDailyIntent("u1", day.ID, "Finish the draft")
	if err != nil || day.DailyIntent != "Finish the draft" {
		t.Fatalf("UpdateDailyIntent() = %+v, %v", day, err)
	}

	for _, h := range models.HorizonTypes {
		day, err = store.UpdateHorizon("u1", day.ID, h, string(h)+" note")
		if err != nil {
			t.Fatalf("UpdateHorizon(%s) error: %v", h, err)
		}
	}
	for _, h := range models.HorizonTypes {
		if got := day.Horizon(h); got != string(h)+" note" {
			t.Errorf("Horizon(%s) = %q", h, got)
		}
	}

	if _, err := store.UpdateHorizon("u1", day.ID, "decade", "x"); !errors.Is(err, apperrors.ErrInvalid) {
		t.Errorf("unknown horizon error = %v, want ErrInvalid", err)
	}
	if _, err := store.UpdateDailyIntent("u2", day.ID, "hijack"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("foreign intent update error = %v, want ErrNotFound", err)
	}
}

func TestUpsertCheckpointReplaces(t *testing.T) {
	store := setupTestSQLiteStore(t)
	day, err := store.GetOrCreateDay("u1", "2026-10-16")
	if err != nil {
		t.Fatal(err)
	}

	first, err := store.UpsertCheckpoint(models.Checkpoint{
		UserID: "u1", DayID: day.ID, CompletedSummary: "outline", Mood: models.MoodGood,
	})
	if err != nil {
		t.Fatalf("UpsertCheckpoint() error: %v", err)
	}
	second, err := store.UpsertCheckpoint(models.Checkpoint{
		UserID: "u1", DayID: day.ID, CompletedSummary: "outline and intro", NextStep: "body", Mood: models.MoodTired,
	})
	if err != nil {
		t.Fatalf("second UpsertCheckpoint() error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %s vs %s", second.ID, first.ID)
	}
	if second.CompletedSummary != "outline and intro" || second.Mood != models.MoodTired || second.NextStep != "body" {
		t.Errorf("second upsert did not replace content: %+v", second)
	}

	rows, err := store.ListCheckpointsInRange("u1", "2026-10-01", "2026-10-31")
	if err != nil {
		t.Fatalf("ListCheckpointsInRange() error: %v", err)
	}
	if len(rows) != 1 || rows[0].Date != "2026-10-16" {
		t.Errorf("ListCheckpointsInRange() = %+v, want one row dated 2026-10-16", rows)
	}
}

func TestCheckpointQueries(t *testing.T) {
	store := setupTestSQLiteStore(t)
	wu := mustWorkUnit(t, store, "u1", "Thesis")

	for _, date := range []string{"2026-10-14", "2026-10-15", "2026-10-16"} {
		day, err := store.UpsertDaySelection("u1", date, &wu.ID)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := store.UpsertCheckpoint(models.Checkpoint{
			UserID: "u1", DayID: day.ID, WorkUnitID: &wu.ID, NextStep: "after " + date,
		}); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := store.GetLatestCheckpointForWorkUnit("u1", wu.ID)
	if err != nil {
		t.Fatalf("GetLatestCheckpointForWorkUnit() error: %v", err)
	}
	if latest.NextStep != "after 2026-10-16" {
		t.Errorf("latest NextStep = %q", latest.NextStep)
	}

	recent, err := store.ListRecentCheckpoints("u1", 2)
	if err != nil {
		t.Fatalf("ListRecentCheckpoints() error: %v", err)
	}
	if len(recent) != 2 || recent[0].Date != "2026-10-16" || recent[1].Date != "2026-10-15" {
		t.Errorf("ListRecentCheckpoints() = %+v", recent)
	}

	if _, err := store.GetLatestCheckpointForWorkUnit("u1", "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing work unit error = %v, want ErrNotFound", err)
	}
}

func TestDailyNails(t *testing.T) {
	store := setupTestSQLiteStore(t)
	day, err := store.GetOrCreateDay("u1", "2026-10-17")
	if err != nil {
		t.Fatal(err)
	}

	for i, label := range []string{"email", "stretch"} {
		nail, err := store.AddDailyNail(models.DailyNail{DayID: day.ID, Label: label})
		if err != nil {
			t.Fatalf("AddDailyNail() error: %v", err)
		}
		if nail.Position != i {
			t.Errorf("%s position = %d, want %d", label, nail.Position, i)
		}
	}

	count, err := store.CountDailyNails(day.ID)
	if err != nil || count != 2 {
		t.Fatalf("CountDailyNails() = %d, %v", count, err)
	}

	nails, err := store.ListDailyNails(day.ID)
	if err != nil {
		t.Fatal(err)
	}
	nails[0].IsDone = true
	done, err := store.UpdateDailyNail(nails[0])
	if err != nil || !done.IsDone {
		t.Errorf("UpdateDailyNail() = %+v, %v", done, err)
	}

	if err := store.DeleteDailyNail(nails[1].ID); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteDailyNail(nails[1].ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}
}
