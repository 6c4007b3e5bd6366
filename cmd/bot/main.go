package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/agent"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Автоигрок: гоняет живой сервер по REST API случайными действиями.
// Удобен как нагрузочный и дымовой тест генерации мира.
func main() {
	logger.Init()

	var (
		url   string
		steps int
		seed  int64
	)
	flag.StringVar(&url, "url", "http://localhost:8080", "Server base URL")
	flag.IntVar(&steps, "steps", 50, "Number of actions to play")
	flag.Int64Var(&seed, "seed", 0, "Action picker seed (0 for time-based)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	bot := agent.NewBot(url, steps, seed)
	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Log.Fatal("Bot error: ", err)
	}
	logger.Log.Info("Bot finished.")
}
