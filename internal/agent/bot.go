package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/pkg/api"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Bot - "игрок-компьютер" (Headless Agent). Это пример ВНЕШНЕГО клиента:
// он ходит в сервер по обычному REST API, как это делал бы фронтенд,
// и на каждом шаге выбирает случайное из предложенных действий.
// Полезен как дымовой тест: несколько сотен шагов бота прогоняют
// генерацию чанков, поиск сайтов и диалоги без участия человека.
//
// Жизненный цикл:
//  1. NewBot -> настройка HTTP-клиента.
//  2. Run -> цикл "спросить действия, выбрать, применить" до лимита шагов.
type Bot struct {
	BaseURL string
	Steps   int
	Delay   time.Duration

	http *http.Client
	rng  *rand.Rand
	log  *logrus.Entry
}

func NewBot(baseURL string, steps int, seed int64) *Bot {
	return &Bot{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Steps:   steps,
		Delay:   200 * time.Millisecond,
		http:    &http.Client{Timeout: 3 * time.Minute},
		rng:     rand.New(rand.NewSource(seed)),
		log:     logger.WithComponent("bot"),
	}
}

// Run гоняет бота заданное число шагов. Ошибка сети фатальна,
// отклоненное действие - нет.
func (b *Bot) Run(ctx context.Context) error {
	for step := 0; step < b.Steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		actions, err := b.fetchActions(ctx)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if len(actions) == 0 {
			b.log.Warn("Сервер не предложил ни одного действия")
			return nil
		}

		choice := actions[b.rng.Intn(len(actions))]
		result, err := b.applyAction(ctx, choice)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", step, choice, err)
		}

		b.log.WithFields(logrus.Fields{
			"step":   step,
			"action": choice,
			"ok":     result.OK,
		}).Info(firstLine(result.Message))

		time.Sleep(b.Delay)
	}
	return nil
}

func (b *Bot) fetchActions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"/api/actions", nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("actions: status %d", resp.StatusCode)
	}
	var out api.ActionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}

func (b *Bot) applyAction(ctx context.Context, action string) (*api.ActionResult, error) {
	body, err := json.Marshal(api.ActionRequest{Action: action})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/api/action", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("action: status %d", resp.StatusCode)
	}
	var out api.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
