package repo

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSQLite_OpenMigrateWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anonbox_test.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// The traced connection must still serve normal reads and writes.
	conf, err := CreateConfession(context.Background(), db, "it works")
	if err != nil {
		t.Fatalf("CreateConfession: %v", err)
	}
	if conf == nil || conf.ID == "" {
		t.Fatalf("expected a generated id, got %+v", conf)
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "anonbox.db")

	if _, err := OpenSQLite(path); err == nil {
		t.Fatal("want an error for a missing parent directory")
	}
}
