package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"countersign/internal/config"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const baseConfig = `
shutdown_timeout = "45s"
version = "1.2.0"

[signing]
base_url = "https://sign.example.com/api/"
app_url = "https://app.example.com"
api_key = "key-from-file"

[tracker]
path = "/var/lib/countersign/tracking.json"

[mail]
host = "smtp.example.com"
username = "automation"
password = "secret"
from = "automation@example.com"

[chat]
webhook_url = "https://outlook.example.com/webhook/abc"

[archive]
container_name = "contracts"
connection_string = "DefaultEndpointsProtocol=http;AccountName=store;AccountKey=key;"

[scheduler]
time = "08:15"
`

const minimalConfig = `
[signing]
base_url = "https://sign.example.com"
api_key = "key"
`

const overlayConfig = `
[signing]
api_key = "key-from-overlay"

[scheduler]
time = "18:00"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 45*time.Second {
		t.Errorf("shutdown timeout: got %v, want 45s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Signing.BaseURL != "https://sign.example.com/api" {
		t.Errorf("signing base url should be trimmed: got %q", cfg.Signing.BaseURL)
	}
	if cfg.Signing.TimeoutSeconds != 30 {
		t.Errorf("signing timeout default: got %d, want 30", cfg.Signing.TimeoutSeconds)
	}
	if cfg.Tracker.Path != "/var/lib/countersign/tracking.json" {
		t.Errorf("tracker path: got %q", cfg.Tracker.Path)
	}
	if !cfg.MailEnabled() || cfg.Mail.Port != 587 {
		t.Errorf("mail: enabled=%v port=%d", cfg.MailEnabled(), cfg.Mail.Port)
	}
	if cfg.Mail.FromName != "Countersign Automation" {
		t.Errorf("mail from name default: got %q", cfg.Mail.FromName)
	}
	if !cfg.ChatEnabled() {
		t.Error("chat should be enabled")
	}
	if !cfg.ArchiveEnabled() || cfg.Archive.ContainerName != "contracts" {
		t.Errorf("archive: enabled=%v container=%q", cfg.ArchiveEnabled(), cfg.Archive.ContainerName)
	}
	if cfg.Scheduler.Time != "08:15" {
		t.Errorf("scheduler time: got %q", cfg.Scheduler.Time)
	}
}

func TestLoadMinimal(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeout != "30s" {
		t.Errorf("shutdown timeout default: got %q", cfg.ShutdownTimeout)
	}
	if cfg.Version != "0.1.0" {
		t.Errorf("version default: got %q", cfg.Version)
	}
	if cfg.Scheduler.Time != "09:00" {
		t.Errorf("scheduler time default: got %q", cfg.Scheduler.Time)
	}
	if cfg.Tracker.Path == "" {
		t.Error("tracker path default should be set")
	}
	if cfg.Signing.AppURL != "https://sign.example.com" {
		t.Errorf("app url should default to base url: got %q", cfg.Signing.AppURL)
	}
	if cfg.MailEnabled() || cfg.ChatEnabled() || cfg.ArchiveEnabled() {
		t.Error("optional systems should stay disabled without configuration")
	}
}

func TestOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.test.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv(config.EnvCountersignEnv, "test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Signing.APIKey != "key-from-overlay" {
		t.Errorf("overlay api key: got %q", cfg.Signing.APIKey)
	}
	if cfg.Signing.BaseURL != "https://sign.example.com/api" {
		t.Errorf("base values should survive overlay: got %q", cfg.Signing.BaseURL)
	}
	if cfg.Scheduler.Time != "18:00" {
		t.Errorf("overlay scheduler time: got %q", cfg.Scheduler.Time)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	t.Setenv("COUNTERSIGN_SIGNING_API_KEY", "key-from-env")
	t.Setenv("COUNTERSIGN_TRACKER_PATH", "/tmp/tracking.json")
	t.Setenv("COUNTERSIGN_CHAT_WEBHOOK_URL", "https://outlook.example.com/webhook/env")
	t.Setenv("COUNTERSIGN_SHUTDOWN_TIMEOUT", "10s")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Signing.APIKey != "key-from-env" {
		t.Errorf("env api key: got %q", cfg.Signing.APIKey)
	}
	if cfg.Tracker.Path != "/tmp/tracking.json" {
		t.Errorf("env tracker path: got %q", cfg.Tracker.Path)
	}
	if !cfg.ChatEnabled() || cfg.Chat.WebhookURL != "https://outlook.example.com/webhook/env" {
		t.Errorf("env should enable chat: %q", cfg.Chat.WebhookURL)
	}
	if cfg.ShutdownTimeout != "10s" {
		t.Errorf("env shutdown timeout: got %q", cfg.ShutdownTimeout)
	}
}

func TestMissingSigning(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error without signing configuration")
	}
	if !strings.Contains(err.Error(), "signing") {
		t.Errorf("error should name the signing section: %v", err)
	}
}

func TestInvalidSchedulerTime(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig+"\n[scheduler]\ntime = \"25:99\"\n")
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid scheduler time")
	}
	if !strings.Contains(err.Error(), "scheduler") {
		t.Errorf("error should name the scheduler section: %v", err)
	}
}

func TestFinalizeAgentDefaultsAndEnv(t *testing.T) {
	t.Setenv(config.EnvAgentProviderName, "azure")
	t.Setenv(config.EnvAgentBaseURL, "https://models.example.com")
	t.Setenv(config.EnvAgentModelName, "gpt-4o-mini")
	t.Setenv(config.EnvAgentToken, "secret")

	var agent gaconfig.AgentConfig
	if err := config.FinalizeAgent(&agent); err != nil {
		t.Fatalf("finalize agent failed: %v", err)
	}

	if agent.Name != "default-agent" {
		t.Errorf("agent name = %q, expected the library default", agent.Name)
	}
	if agent.Transport == nil || agent.Transport.Provider == nil {
		t.Fatal("finalize should populate the transport provider")
	}

	p := agent.Transport.Provider
	if p.Name != "azure" {
		t.Errorf("provider name = %q, expected azure", p.Name)
	}
	if p.BaseURL != "https://models.example.com" {
		t.Errorf("base url = %q", p.BaseURL)
	}
	if p.Model == nil || p.Model.Name != "gpt-4o-mini" {
		t.Errorf("model = %+v, expected gpt-4o-mini", p.Model)
	}
	if p.Options["token"] != "secret" {
		t.Errorf("options = %v, expected the token option", p.Options)
	}
}
