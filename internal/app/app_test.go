package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"planner-go/internal/config"
)

func newTestApp(t *testing.T) *PlannerApp {
	t.Helper()
	base := t.TempDir()
	cfg := config.NewConfig("test-host", base)
	cfg.Database.Type = "memory"

	app, err := NewPlannerApp(cfg, "Test")
	if err != nil {
		t.Fatalf("NewPlannerApp() error = %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNewPlannerApp_CreatesLogFile(t *testing.T) {
	app := newTestApp(t)

	entries, err := os.ReadDir(app.Config().LogDir)
	if err != nil {
		t.Fatalf("reading log dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("no log file created")
	}
}

func TestExportBackupToFile_DefaultPath(t *testing.T) {
	app := newTestApp(t)

	projectID, err := app.Service().CreateProject("Home", "USD")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	path, err := app.ExportBackupToFile(projectID, "")
	if err != nil {
		t.Fatalf("ExportBackupToFile() error = %v", err)
	}
	if !strings.HasPrefix(path, app.Config().Backup.ExportDir) {
		t.Errorf("path = %q, want under %q", path, app.Config().Backup.ExportDir)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("path = %q, want .json suffix", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestBackupFileRoundTrip(t *testing.T) {
	app := newTestApp(t)

	projectID, err := app.Service().CreateProject("Home", "USD")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if _, err := app.Service().CreateRoom(projectID, "Kitchen"); err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "backup.json")
	if _, err := app.ExportBackupToFile(projectID, outPath); err != nil {
		t.Fatalf("ExportBackupToFile() error = %v", err)
	}

	result, err := app.ValidateBackupFile(outPath)
	if err != nil {
		t.Fatalf("ValidateBackupFile() error = %v", err)
	}
	if !result.OK {
		t.Fatalf("exported file failed validation: %s", result.Reason)
	}

	if err := app.RestoreBackupFromFile(projectID, outPath); err != nil {
		t.Fatalf("RestoreBackupFromFile() error = %v", err)
	}

	rooms, err := app.Service().ListRooms(projectID)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Kitchen" {
		t.Errorf("ListRooms() after restore = %+v", rooms)
	}
}

func TestValidateBackupFile_Garbage(t *testing.T) {
	app := newTestApp(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`"just a string"`), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	result, err := app.ValidateBackupFile(path)
	if err != nil {
		t.Fatalf("ValidateBackupFile() error = %v", err)
	}
	if result.OK {
		t.Error("ValidateBackupFile() accepted a non-object document")
	}
	if result.Reason != "Backup must be a JSON object" {
		t.Errorf("Reason = %q", result.Reason)
	}

	if _, err := app.ValidateBackupFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("ValidateBackupFile() expected error for missing file")
	}
}
