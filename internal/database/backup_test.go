package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aircare/internal/config"
	"aircare/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformBackup(t *testing.T) {
	logger := zerolog.Nop()

	dbPath := filepath.Join(t.TempDir(), "source.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	require.NoError(t, db.CreateRequest(context.Background(), sampleRequest("req-1")))
	require.NoError(t, db.Close())

	backupDir := t.TempDir()
	svc := NewBackupService(dbPath, config.BackupConfig{
		Enabled:     true,
		StoragePath: backupDir,
	}, &logger)

	require.NoError(t, svc.PerformBackup())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "requests_")
	assert.Contains(t, entries[0].Name(), ".db")

	// the backup is a readable database with the data intact
	backupDB, err := NewDB(filepath.Join(backupDir, entries[0].Name()), &logger)
	require.NoError(t, err)
	defer backupDB.Close()

	loaded, err := backupDB.GetRequest(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, loaded.Status)
}

func TestCleanupOldBackups(t *testing.T) {
	logger := zerolog.Nop()
	backupDir := t.TempDir()

	oldFile := filepath.Join(backupDir, "requests_old.db")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	oldTime := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

	freshFile := filepath.Join(backupDir, "requests_fresh.db")
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))

	svc := NewBackupService("unused.db", config.BackupConfig{
		StoragePath:   backupDir,
		RetentionDays: 14,
	}, &logger)

	svc.CleanupOldBackups()

	assert.NoFileExists(t, oldFile)
	assert.FileExists(t, freshFile)
}

func TestBackupDisabledIsNoOp(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewBackupService("unused.db", config.BackupConfig{Enabled: false}, &logger)

	// must return immediately
	done := make(chan struct{})
	go func() {
		svc.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled backup service did not return")
	}
}
