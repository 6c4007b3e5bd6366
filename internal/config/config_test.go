package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8000" {
		t.Errorf("default port = %s", cfg.Port)
	}
	if cfg.AI.ChatModel == "" {
		t.Error("chat model must have a default")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9100\"\ndb_path: custom.db\nai:\n  chat_model: test-model\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GAME_PORT", "9200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9200" {
		t.Errorf("env must override file, got port %s", cfg.Port)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("db_path = %s", cfg.DBPath)
	}
	if cfg.AI.ChatModel != "test-model" {
		t.Errorf("chat_model = %s", cfg.AI.ChatModel)
	}
	if cfg.AI.EmbedModel == "" {
		t.Error("unset file fields must keep defaults")
	}
}
