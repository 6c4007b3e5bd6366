package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/config"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/internal/lore"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

func init() {
	logger.Init()
}

// defaultLore - базовые знания о мире, зашиваемые в индекс, когда
// файл лора не передан.
const defaultLore = `The Hex World is an endless land divided into hexagonal chunks.
Each chunk holds a handful of named places: villages, forests, caves, ruins.
New chunks come into being the moment a traveler first crosses their border.
The first village stands at the center of the world, at coordinates (0,0).
Travelers speak of hidden places that reveal themselves only to those who search.
The Spirit of the World watches every road and remembers every deed.
Companions met on the road may join a traveler, though no band grows past four.
Time flows in thirty-day months, and the needs of the body - food, water, rest -
spare no one, hero or wanderer.`

// Инструмент индексации лора: режет текст на фрагменты, считает
// эмбеддинги через внешний API и складывает их в SQLite.
func main() {
	var (
		cfgPath  string
		filePath string
		title    string
		wipe     bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	flag.StringVar(&filePath, "file", "", "Lore text file (built-in lore when empty)")
	flag.StringVar(&title, "title", "world", "Document title, used in chunk ids")
	flag.BoolVar(&wipe, "wipe", false, "Delete the collection before seeding")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}
	if cfg.AI.APIKey == "" {
		logger.Log.Fatal("COHERE_API_KEY is required to compute embeddings")
	}

	text := defaultLore
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			logger.Log.Fatal("Read lore file: ", err)
		}
		text = string(data)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal("Storage error: ", err)
	}
	defer store.Close()

	if wipe {
		if err := store.DeleteLoreCollection(cfg.LoreCollection); err != nil {
			logger.Log.Fatal("Wipe error: ", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	index := lore.NewIndex(store, ai.NewClient(cfg.AI), cfg.LoreCollection)
	n, err := index.Seed(ctx, title, text)
	if err != nil {
		logger.Log.Fatal("Seed error: ", err)
	}
	logger.Log.Infof("Проиндексировано фрагментов: %d (коллекция %s)", n, cfg.LoreCollection)
}
