package models

import (
	"path/filepath"
	"testing"
	"time"
)

func testDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecording(guid string) *Recording {
	return &Recording{
		GUID:          guid,
		Title:         "Title " + guid,
		Kind:          MediaKindMovie,
		Library:       TargetLibraryFilm,
		LibraryID:     "1",
		LineupChannel: "lineup-1",
		AiringStart:   time.Unix(1700000000, 0),
	}
}

func TestCreateAndGetRecording(t *testing.T) {
	db := testDatabase(t)

	if err := db.CreateRecording(sampleRecording("g1")); err != nil {
		t.Fatalf("CreateRecording failed: %v", err)
	}

	rec, err := db.GetRecordingByGUID("g1")
	if err != nil {
		t.Fatalf("GetRecordingByGUID failed: %v", err)
	}
	if rec.Title != "Title g1" {
		t.Errorf("Title mismatch: %s", rec.Title)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on insert")
	}
}

func TestGetRecentRecordingsLimit(t *testing.T) {
	db := testDatabase(t)

	for _, guid := range []string{"g1", "g2", "g3"} {
		if err := db.CreateRecording(sampleRecording(guid)); err != nil {
			t.Fatalf("CreateRecording failed: %v", err)
		}
	}

	recent, err := db.GetRecentRecordings(2)
	if err != nil {
		t.Fatalf("GetRecentRecordings failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("Expected 2 recent entries, got %d", len(recent))
	}

	all, err := db.GetAllRecordings()
	if err != nil {
		t.Fatalf("GetAllRecordings failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(all))
	}
}

func TestPruneRecordingsBefore(t *testing.T) {
	db := testDatabase(t)

	for _, guid := range []string{"g1", "g2"} {
		if err := db.CreateRecording(sampleRecording(guid)); err != nil {
			t.Fatalf("CreateRecording failed: %v", err)
		}
	}

	// Cutoff in the past removes nothing
	pruned, err := db.PruneRecordingsBefore(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PruneRecordingsBefore failed: %v", err)
	}
	if pruned != 0 {
		t.Errorf("Expected nothing pruned, got %d", pruned)
	}

	// Cutoff in the future removes everything
	pruned, err = db.PruneRecordingsBefore(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneRecordingsBefore failed: %v", err)
	}
	if pruned != 2 {
		t.Errorf("Expected 2 pruned, got %d", pruned)
	}

	all, err := db.GetAllRecordings()
	if err != nil {
		t.Fatalf("GetAllRecordings failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected empty store after prune, got %d", len(all))
	}
}

func TestLibraryForTemplateType(t *testing.T) {
	cases := []struct {
		code int
		want TargetLibrary
	}{
		{1, TargetLibraryFilm},
		{0, TargetLibraryTV},
		{2, TargetLibraryTV},
		{-1, TargetLibraryTV},
	}

	for _, tc := range cases {
		if got := LibraryForTemplateType(tc.code); got != tc.want {
			t.Errorf("LibraryForTemplateType(%d) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf("movie") != MediaKindMovie {
		t.Error("movie should map to MediaKindMovie")
	}
	if KindOf("show") != MediaKindShow {
		t.Error("show should map to MediaKindShow")
	}
	if KindOf("clip") != MediaKindOther {
		t.Error("unknown types should map to MediaKindOther")
	}
}
