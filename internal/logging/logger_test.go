package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	Close()
	configMu.Lock()
	config = Config{}
	logLevel = LevelInfo
	configMu.Unlock()
	logsDir = ""
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	defer resetState()
	if err := Initialize("", Config{}); err == nil {
		t.Error("expected error for empty workspace")
	}
}

func TestDisabledDebugModeWritesNothing(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	if err := Initialize(dir, Config{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Agents("should not appear")
	Engine("should not appear")

	if _, err := os.Stat(filepath.Join(dir, ".advisim", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not exist when debug mode is off")
	}
}

func TestCategoryFileOutput(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	err := Initialize(dir, Config{DebugMode: true, Level: "debug"})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	MonteCarlo("batch of %d trials", 500)
	Close()

	matches, err := filepath.Glob(filepath.Join(dir, ".advisim", "logs", "*_montecarlo.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one montecarlo log file, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "batch of 500 trials") {
		t.Errorf("log missing message, got: %s", data)
	}
}

func TestCategoryToggle(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	err := Initialize(dir, Config{
		DebugMode:  true,
		Categories: map[string]bool{"agents": false},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsCategoryEnabled(CategoryAgents) {
		t.Error("agents category should be disabled")
	}
	if !IsCategoryEnabled(CategoryEngine) {
		t.Error("unspecified categories default to enabled")
	}
}

func TestLevelFiltering(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	err := Initialize(dir, Config{DebugMode: true, Level: "warn"})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryEngine)
	l.Info("info should be filtered")
	l.Warn("warn should appear")
	Close()

	matches, _ := filepath.Glob(filepath.Join(dir, ".advisim", "logs", "*_engine.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one engine log file, got %v", matches)
	}
	data, _ := os.ReadFile(matches[0])
	if strings.Contains(string(data), "info should be filtered") {
		t.Error("info message should have been filtered at warn level")
	}
	if !strings.Contains(string(data), "warn should appear") {
		t.Error("warn message missing")
	}
}
