// Package app is the application layer between the CLI and the planner
// service. It wires dependencies from config and manages their
// lifecycle.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"planner-go/internal/backup"
	"planner-go/internal/config"
	"planner-go/internal/database"
	"planner-go/internal/planner"
)

// Version is stamped into exported backup documents as appVersion.
const Version = "0.1.0"

// PlannerApp constructs all dependencies from config, exposes the
// high-level operations the CLI needs, and manages the store lifecycle
// on Close.
type PlannerApp struct {
	cfg     *config.Config
	store   *database.SQLiteStore
	service *planner.Service
	logFile *os.File
}

// NewPlannerApp creates a fully wired PlannerApp from the given config.
// operation identifies the CLI command being run (e.g. "BackupExport").
// The caller must call Close when done.
func NewPlannerApp(cfg *config.Config, operation string) (*PlannerApp, error) {
	store, err := database.NewStoreFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := planner.NewService(store, &slogAdapter{l: logger}, planner.RealClock{},
		planner.NewPrefixIDGenerator(), Version)

	return &PlannerApp{
		cfg:     cfg,
		store:   store,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service exposes the wired planner service for CLI commands.
func (a *PlannerApp) Service() *planner.Service {
	return a.service
}

// Config returns the config the app was built from.
func (a *PlannerApp) Config() *config.Config {
	return a.cfg
}

// ExportBackupToFile exports the project's backup document and writes
// it to outPath as indented JSON. When outPath is empty, a timestamped
// file under the configured export directory is used. Returns the path
// written.
func (a *PlannerApp) ExportBackupToFile(projectID, outPath string) (string, error) {
	doc, err := a.service.ExportBackup(projectID)
	if err != nil {
		return "", err
	}

	if outPath == "" {
		name := fmt.Sprintf("%s-%s.json", projectID, time.Now().UTC().Format("20060102T150405Z"))
		outPath = filepath.Join(a.cfg.Backup.ExportDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding backup document: %w", err)
	}
	if err := os.WriteFile(outPath, body, 0644); err != nil {
		return "", fmt.Errorf("writing backup document: %w", err)
	}
	return outPath, nil
}

// ReadBackupFile reads a candidate backup document from disk. The
// content is decoded as free-form JSON so the validator sees exactly
// what the file holds, not a coerced struct.
func (a *PlannerApp) ReadBackupFile(path string) (any, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup file: %w", err)
	}
	var input any
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, fmt.Errorf("parsing backup file: %w", err)
	}
	return input, nil
}

// ValidateBackupFile runs the validator over a backup file without
// touching the live dataset.
func (a *PlannerApp) ValidateBackupFile(path string) (backup.ValidationResult, error) {
	input, err := a.ReadBackupFile(path)
	if err != nil {
		return backup.ValidationResult{}, err
	}
	return backup.Validate(input), nil
}

// RestoreBackupFromFile validates the file and restores it over the
// project's live dataset.
func (a *PlannerApp) RestoreBackupFromFile(projectID, path string) error {
	input, err := a.ReadBackupFile(path)
	if err != nil {
		return err
	}
	return a.service.RestoreBackup(projectID, input)
}

// Close closes all resources.
func (a *PlannerApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
