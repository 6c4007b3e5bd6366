package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/config"
)

// Chatter - непрозрачная нарративная способность: системный + пользовательский
// промпт на входе, свободный текст на выходе. Все генеративные вызовы игры
// (генерация чанков, описания сайтов, реплики NPC, ответы духа мира)
// проходят через этот интерфейс, в тестах он подменяется детерминированной
// заглушкой.
type Chatter interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder превращает тексты в векторы для поиска по лору.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client - HTTP-клиент Cohere-совместимого API (/chat и /embed).
type Client struct {
	cfg  config.AIConfig
	http *http.Client
}

// NewClient создает клиент. Таймаут щедрый: генерация чанка - самый
// медленный вызов в игре, и повисший запрос блокирует только одно действие.
func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 90 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// Chat выполняет один диалоговый вызов и возвращает текст первого блока ответа.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat", reqBody, &resp); err != nil {
		return "", err
	}
	for _, block := range resp.Message.Content {
		if block.Type == "" || block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("chat: empty response")
}

type embedRequest struct {
	Model          string   `json:"model"`
	Texts          []string `json:"texts"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type embedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

// Embed возвращает по одному вектору на каждый входной текст.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	reqBody := embedRequest{
		Model:          c.cfg.EmbedModel,
		Texts:          texts,
		InputType:      "search_document",
		EmbeddingTypes: []string{"float"},
	}

	var resp embedResponse
	if err := c.post(ctx, "/embed", reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings.Float) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts",
			len(resp.Embeddings.Float), len(texts))
	}
	return resp.Embeddings.Float, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ai %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ai %s: status %d: %s", path, resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
