package world

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
)

// Generator - внешняя способность "создай чанк по координатам".
// Реализация ненадежна: ответ может быть мусором или не прийти вовсе,
// поэтому ChunkStore всегда готов подставить fallback-заглушку.
type Generator interface {
	Generate(ctx context.Context, coord domain.Coord) (*domain.ChunkDocument, error)
}

// AIGenerator генерирует чанк одним вызовом чат-модели.
type AIGenerator struct {
	chat ai.Chatter
}

func NewAIGenerator(chat ai.Chatter) *AIGenerator {
	return &AIGenerator{chat: chat}
}

const chunkExampleJSON = `{
  "locations": {
    "village": {
      "visible": true,
      "connections": ["forest", "exit:q+1,r0"],
      "description": "...",
      "history_of_events": [],
      "sites": {
        "inn": {
          "description": "...",
          "entities": [],
          "history_of_events": [],
          "discovered": false
        }
      }
    }
  }
}`

// Generate просит модель описать новый чанк строгим JSON.
func (g *AIGenerator) Generate(ctx context.Context, coord domain.Coord) (*domain.ChunkDocument, error) {
	systemPrompt := fmt.Sprintf(`You are generating a new area in our fantasy exploration game at chunk coordinates (q=%d, r=%d).
Return ONLY valid JSON describing this chunk's locations, following these STRICT rules:

1. Generate EXACTLY 4-7 locations within this chunk
2. Each location MUST have:
   - "visible": boolean (false for secret locations)
   - "connections": array of strings listing ONLY:
       * Names of OTHER locations in this chunk
       * AT MOST ONE "exit:q±1,r±1" reference
   - "description": short but vivid text
   - "history_of_events": empty array
   - "sites": dict of 1-3 discoverable sub-locations

3. If (q,r) == (0,0), one location MUST be named "village"

Example structure:
%s

Return ONLY the JSON, no commentary.`, coord.Q, coord.R, chunkExampleJSON)

	userPrompt := "Generate the chunk with 3-6 named top-level locations, some possibly secret."

	raw, err := g.chat.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}

	var doc domain.ChunkDocument
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return nil, fmt.Errorf("%w: bad json: %v", domain.ErrGenerationFailure, err)
	}
	return &doc, nil
}

// stripCodeFence убирает обертку ```json ... ```, которую модели любят
// добавлять вопреки инструкции "ONLY JSON".
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FallbackChunk - детерминированная заглушка из двух локаций.
// Подставляется вместо ответа генератора, когда тот вернул непригодный
// контент: игра обязана оставаться играбельной при любом сбое генерации.
func FallbackChunk(coord domain.Coord) *domain.ChunkDocument {
	doc := &domain.ChunkDocument{}
	doc.AddLocation("village", &domain.LocationRecord{
		Visible:     true,
		Connections: []string{systems.FormatExitToken(domain.Coord{Q: 1, R: -1}), "forest"},
		Description: fmt.Sprintf("A default village at chunk(%d,%d)", coord.Q, coord.R),
		HistoryOfEvents: []string{},
		Sites: map[string]*domain.SiteRecord{
			"town_hall": {
				Description:     "A small town hall building.",
				Entities:        []domain.SiteEntity{},
				HistoryOfEvents: []string{},
				Discovered:      false,
			},
		},
	})
	doc.AddLocation("forest", &domain.LocationRecord{
		Visible:     true,
		Connections: []string{"village", systems.FormatExitToken(domain.Coord{Q: 0, R: 1})},
		Description: "A fallback forest area.",
		HistoryOfEvents: []string{},
		Sites: map[string]*domain.SiteRecord{
			"hidden_grove": {
				Description:     "A serene grove of trees",
				Entities:        []domain.SiteEntity{},
				HistoryOfEvents: []string{},
				Discovered:      false,
			},
		},
	})
	return doc
}
