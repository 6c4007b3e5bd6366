package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/config"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

func init() {
	logger.Init()
}

// Инструмент сброса мира: бэкап базы, очистка игровых таблиц и создание
// свежего игрока. Лор при сбросе не трогается.
func main() {
	var (
		cfgPath string
		noBak   bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config (optional)")
	flag.BoolVar(&noBak, "no-backup", false, "Skip the gzip backup of the database")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	if !noBak {
		if _, err := os.Stat(cfg.DBPath); err == nil {
			bak := fmt.Sprintf("%s.%s.gz", cfg.DBPath, time.Now().UTC().Format("20060102-150405"))
			if err := storage.BackupFile(cfg.DBPath, bak); err != nil {
				logger.Log.Fatal("Backup error: ", err)
			}
			logger.Log.Infof("База сохранена в %s", bak)
		}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Log.Fatal("Storage error: ", err)
	}
	defer store.Close()

	if err := store.Reset(); err != nil {
		logger.Log.Fatal("Reset error: ", err)
	}

	// Свежий игрок создается сразу, чтобы первый запрос сервера не делал этого.
	p, err := store.GetPlayer()
	if err != nil {
		logger.Log.Fatal("Player error: ", err)
	}
	logger.Log.Infof("Мир очищен. Игрок начинает в %s %s", p.LocationName, p.Coord())
}
