package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AIConfig - доступ к внешнему генеративному API (Cohere-совместимый).
type AIConfig struct {
	// APIKey обычно приходит из окружения (COHERE_API_KEY), а не из файла.
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	ChatModel  string `yaml:"chat_model"`
	EmbedModel string `yaml:"embed_model"`
}

// Config - параметры запуска сервера.
type Config struct {
	Port   string   `yaml:"port"`
	DBPath string   `yaml:"db_path"`
	AI     AIConfig `yaml:"ai"`

	// LoreCollection - идентификатор коллекции лора в таблице lore_chunks.
	LoreCollection string `yaml:"lore_collection"`
}

// Default - конфиг по умолчанию, рабочий без файла (кроме API-ключа).
func Default() Config {
	return Config{
		Port:   "8000",
		DBPath: "game.db",
		AI: AIConfig{
			BaseURL:    "https://api.cohere.com/v2",
			ChatModel:  "command-r-08-2024",
			EmbedModel: "embed-english-v3.0",
		},
		LoreCollection: "hex_game_lore",
	}
}

// Load читает YAML-файл (если путь не пуст) поверх значений по умолчанию,
// затем накладывает переменные окружения. Окружение всегда побеждает файл.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("GAME_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GAME_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COHERE_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("COHERE_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}

	return cfg, nil
}
