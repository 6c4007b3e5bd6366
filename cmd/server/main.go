package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/config"
	"github.com/RoboSupreme/my-hex-game/internal/engine"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/internal/lore"
	"github.com/RoboSupreme/my-hex-game/internal/server"
	"github.com/RoboSupreme/my-hex-game/internal/version"
	"github.com/RoboSupreme/my-hex-game/internal/world"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		cfgPath string
		seed    int64
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	flag.Int64Var(&seed, "seed", 0, "Offline generator seed (0 for random)")
	flag.Parse()

	logger.Log.Info("Starting Hex World...")
	logger.Log.Info(version.String())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	// 2. Хранилище и ядро
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal("Storage error: ", err)
	}
	defer store.Close()

	client := ai.NewClient(cfg.AI)

	// Без ключа API мир генерируется офлайновым процедурным генератором.
	var gen world.Generator = world.NewAIGenerator(client)
	if cfg.AI.APIKey == "" {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.Log.Warnf("COHERE_API_KEY не задан: включен офлайновый генератор мира (seed %d)", seed)
		gen = world.NewProcGenerator(seed)
	}

	loreIndex := lore.NewIndex(store, client, cfg.LoreCollection)
	gameService := engine.NewService(store, client, gen, loreIndex)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, cfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	logger.Log.Info("Done.")
}
