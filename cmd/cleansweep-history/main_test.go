package main

import (
	"os"
	"path/filepath"
	"testing"

	"cleansweep/internal/database"
	"cleansweep/internal/exitcodes"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	db, err := database.NewHistoryDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Record(database.Event{Kind: database.KindValidation, Path: "/srv/missing", FieldName: "BASE_DIR"}); err != nil {
		t.Fatalf("Failed to record event: %v", err)
	}
	return dbPath
}

func TestRunExitCodes(t *testing.T) {
	dbPath := seedHistory(t)
	notADB := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"recent", []string{"--db", dbPath, "--recent", "5"}, exitcodes.Success},
		{"recent json", []string{"--db", dbPath, "--recent", "5", "--json"}, exitcodes.Success},
		{"failed", []string{"--db", dbPath, "--failed", "5"}, exitcodes.Success},
		{"kind", []string{"--db", dbPath, "--kind", database.KindValidation}, exitcodes.Success},
		{"stats", []string{"--db", dbPath, "--stats", "--days", "7"}, exitcodes.Success},
		{"vacuum", []string{"--db", dbPath, "--vacuum"}, exitcodes.Success},
		{"no mode", []string{"--db", dbPath}, exitcodes.InvalidConfig},
		{"unknown flag", []string{"--bogus"}, exitcodes.InvalidConfig},
		{"unopenable db", []string{"--db", notADB, "--recent", "1"}, exitcodes.RuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.expected {
				t.Errorf("run(%v) = %d, expected %d", tt.args, got, tt.expected)
			}
		})
	}
}

// TestRunReleasesDatabase verifies the database is closed on every exit path,
// so the WAL side files are checkpointed away.
func TestRunReleasesDatabase(t *testing.T) {
	dbPath := seedHistory(t)

	for _, args := range [][]string{
		{"--db", dbPath, "--recent", "1"},
		{"--db", dbPath},
	} {
		run(args)
		if _, err := os.Stat(dbPath + "-wal"); !os.IsNotExist(err) {
			t.Errorf("run(%v) left %s-wal behind", args, dbPath)
		}
	}
}

func TestShowRecentReportsClosedDatabase(t *testing.T) {
	db, err := database.NewHistoryDB(seedHistory(t))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.Close()

	if err := showRecent(db, 1, false); err == nil {
		t.Error("showRecent on a closed database returned nil error")
	}
}
