package db

import (
	"context"
	"testing"
	"time"

	"github.com/quantmind-br/claudeport/internal/core"
)

func TestDBOperations(t *testing.T) {
	ctx := context.Background()
	tmpfile := t.TempDir() + "/test.db"
	db, err := New(ctx, tmpfile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	rec := &core.BuildRecord{
		BuildID:       "claude-1700000000",
		Version:       "0.12.55",
		BuildDate:     time.Now(),
		InstallerFile: "/tmp/Claude-Setup-x64.exe",
		OutputDir:     "/tmp/output",
		DesktopFile:   "/tmp/output/share/applications/claude.desktop",
		Metadata: core.Metadata{
			IconFiles:     []string{"/tmp/output/share/icons/hicolor/256x256/apps/claude.png"},
			WrapperScript: "/tmp/output/bin/claude-desktop",
		},
	}

	err = db.Create(ctx, rec)
	if err != nil {
		t.Fatalf("Failed to create build: %v", err)
	}

	got, err := db.Get(ctx, "claude-1700000000")
	if err != nil {
		t.Fatalf("Failed to get build: %v", err)
	}

	if got.BuildID != rec.BuildID {
		t.Errorf("Get() BuildID = %v, want %v", got.BuildID, rec.BuildID)
	}
	if got.Version != rec.Version {
		t.Errorf("Get() Version = %v, want %v", got.Version, rec.Version)
	}
	if len(got.Metadata.IconFiles) != 1 {
		t.Errorf("Get() IconFiles length = %d, want 1", len(got.Metadata.IconFiles))
	}

	builds, err := db.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list builds: %v", err)
	}
	if len(builds) != 1 {
		t.Errorf("List() length = %d, want 1", len(builds))
	}

	latest, err := db.Latest(ctx)
	if err != nil {
		t.Fatalf("Failed to get latest build: %v", err)
	}
	if latest == nil || latest.BuildID != rec.BuildID {
		t.Errorf("Latest() = %v, want %v", latest, rec.BuildID)
	}

	err = db.Delete(ctx, "claude-1700000000")
	if err != nil {
		t.Fatalf("Failed to delete build: %v", err)
	}

	_, err = db.Get(ctx, "claude-1700000000")
	if err == nil {
		t.Error("Get() after Delete should fail")
	}
}

func TestDBLatestEmpty(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, t.TempDir()+"/empty.db")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	latest, err := db.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() on empty ledger failed: %v", err)
	}
	if latest != nil {
		t.Errorf("Latest() on empty ledger = %v, want nil", latest)
	}
}

func TestDBDeleteMissing(t *testing.T) {
	ctx := context.Background()
	db, err := New(ctx, t.TempDir()+"/missing.db")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Delete(ctx, "no-such-build"); err == nil {
		t.Error("Delete() of missing build should fail")
	}
}
