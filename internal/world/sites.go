package world

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Пределы роста контента от повторных поисков.
const (
	maxSitesPerLocation = 7
	maxEntitiesPerSite  = 7
)

// SiteRegistry управляет сайтами: вход с разовым обогащением описания,
// поиск скрытых сайтов в локации, поиск сущностей внутри сайта и
// свободные действия внутри сайта.
type SiteRegistry struct {
	chunks *ChunkStore
	chat   ai.Chatter
	log    *logrus.Entry
}

func NewSiteRegistry(chunks *ChunkStore, chat ai.Chatter) *SiteRegistry {
	return &SiteRegistry{
		chunks: chunks,
		chat:   chat,
		log:    logger.WithComponent("sites"),
	}
}

// DiscoveredSites возвращает открытые сайты локации в стабильном порядке.
func DiscoveredSites(doc *domain.ChunkDocument, locName string) []string {
	loc, ok := doc.Locations[locName]
	if !ok {
		return nil
	}
	var names []string
	for _, name := range loc.SiteNames() {
		if loc.Sites[name].Discovered {
			names = append(names, name)
		}
	}
	return names
}

// EnterSite помещает игрока внутрь сайта. При первом входе описание
// разово обогащается генеративным вызовом; флаг enriched гарантирует,
// что повторные входы возвращают сохраненный текст без новых вызовов.
func (r *SiteRegistry) EnterSite(ctx context.Context, coord domain.Coord, doc *domain.ChunkDocument, locName, siteName string) (string, error) {
	loc, ok := doc.Locations[locName]
	if !ok {
		return "", fmt.Errorf("%w: location %q", domain.ErrSiteNotFound, locName)
	}
	site, ok := loc.Sites[siteName]
	if !ok || !site.Discovered {
		return "", fmt.Errorf("%w: %q in %s", domain.ErrSiteNotFound, siteName, locName)
	}

	if !site.Enriched {
		if enriched := r.enrichDescription(ctx, locName, siteName, site); enriched != "" {
			site.Description = enriched
			site.Enriched = true
			if err := r.chunks.Update(coord, doc); err != nil {
				return "", err
			}
		}
	}
	return site.Description, nil
}

func (r *SiteRegistry) enrichDescription(ctx context.Context, locName, siteName string, site *domain.SiteRecord) string {
	systemPrompt := "You are the narrator of a fantasy exploration game. " +
		"Expand the given place description into 2-4 vivid sentences. " +
		"Return only the new description, no commentary."
	userPrompt := fmt.Sprintf("Place: %s (inside %s)\nCurrent description: %s",
		siteName, locName, site.Description)

	text, err := r.chat.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		r.log.WithError(err).WithField("site", siteName).
			Warn("Обогащение описания не удалось, оставляю исходное")
		return ""
	}
	return strings.TrimSpace(text)
}

type siteDiscovery struct {
	DiscoveryText string `json:"discovery_text"`
	RevealedSite  string `json:"revealed_site"`
}

// SearchLocation ищет скрытые сайты в локации. Может открыть не более
// одного еще не открытого сайта за вызов; когда открывать нечего,
// возвращает сообщение об исчерпании - это штатный исход, не ошибка.
func (r *SiteRegistry) SearchLocation(ctx context.Context, coord domain.Coord, doc *domain.ChunkDocument, locName string) (string, error) {
	loc, ok := doc.Locations[locName]
	if !ok {
		return "", fmt.Errorf("%w: location %q", domain.ErrSiteNotFound, locName)
	}

	var hidden []string
	discovered := 0
	for _, name := range loc.SiteNames() {
		if loc.Sites[name].Discovered {
			discovered++
		} else {
			hidden = append(hidden, name)
		}
	}
	if len(hidden) == 0 || discovered >= maxSitesPerLocation {
		return "You've explored every corner of this place. There is nothing left to find.", nil
	}

	systemPrompt := fmt.Sprintf(`You narrate a search in a fantasy exploration game.
The player searches %q. Hidden places that could be found: %s.
Decide if the player finds one of them. Return ONLY JSON:
{"discovery_text": "what the player experiences", "revealed_site": "<one name from the list, or empty if nothing found>"}`,
		locName, strings.Join(hidden, ", "))

	raw, err := r.chat.Chat(ctx, systemPrompt, "The player searches the area carefully.")
	if err != nil {
		r.log.WithError(err).Warn("Поиск по локации: вызов не удался")
		return "You search around but find nothing of note.", nil
	}

	var d siteDiscovery
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &d); err != nil {
		return "You search around but find nothing of note.", nil
	}

	site, ok := loc.Sites[d.RevealedSite]
	if !ok || site.Discovered {
		if d.DiscoveryText != "" {
			return d.DiscoveryText, nil
		}
		return "You search around but find nothing of note.", nil
	}

	site.Discovered = true
	loc.HistoryOfEvents = append(loc.HistoryOfEvents, "Found new site: "+d.RevealedSite)
	if err := r.chunks.Update(coord, doc); err != nil {
		return "", err
	}
	if d.DiscoveryText == "" {
		d.DiscoveryText = "You discover " + d.RevealedSite + "."
	}
	return d.DiscoveryText, nil
}

type entityDiscovery struct {
	DiscoveryText string `json:"discovery_text"`
	NewEntity     *struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"new_entity"`
}

// SearchSite ищет примечательное внутри сайта и может добавить одну
// новую сущность. Рост ограничен maxEntitiesPerSite.
func (r *SiteRegistry) SearchSite(ctx context.Context, coord domain.Coord, doc *domain.ChunkDocument, locName, siteName string) (string, error) {
	loc, ok := doc.Locations[locName]
	if !ok {
		return "", fmt.Errorf("%w: location %q", domain.ErrSiteNotFound, locName)
	}
	site, ok := loc.Sites[siteName]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", domain.ErrSiteNotFound, siteName, locName)
	}
	if len(site.Entities) >= maxEntitiesPerSite {
		return "You've examined everything here. There is nothing more to uncover.", nil
	}

	known := make([]string, 0, len(site.Entities))
	for _, e := range site.Entities {
		known = append(known, e.Name)
	}

	systemPrompt := fmt.Sprintf(`You narrate a search in a fantasy exploration game.
The player examines %q (%s). Already known: [%s].
Invent AT MOST one new notable object or detail, or nothing. Return ONLY JSON:
{"discovery_text": "what the player experiences", "new_entity": {"name": "...", "description": "..."} or null}`,
		siteName, site.Description, strings.Join(known, ", "))

	raw, err := r.chat.Chat(ctx, systemPrompt, "The player searches the place thoroughly.")
	if err != nil {
		r.log.WithError(err).Warn("Поиск по сайту: вызов не удался")
		return "You look around but nothing new catches your eye.", nil
	}

	var d entityDiscovery
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &d); err != nil || d.NewEntity == nil || d.NewEntity.Name == "" {
		if d.DiscoveryText != "" {
			return d.DiscoveryText, nil
		}
		return "You look around but nothing new catches your eye.", nil
	}

	for _, e := range site.Entities {
		if strings.EqualFold(e.Name, d.NewEntity.Name) {
			return d.DiscoveryText, nil
		}
	}

	site.Entities = append(site.Entities, domain.SiteEntity{
		Name:            d.NewEntity.Name,
		Description:     d.NewEntity.Description,
		HistoryOfEvents: []string{},
	})
	site.HistoryOfEvents = append(site.HistoryOfEvents, "Found: "+d.NewEntity.Name)
	if err := r.chunks.Update(coord, doc); err != nil {
		return "", err
	}
	if d.DiscoveryText == "" {
		d.DiscoveryText = "You find " + d.NewEntity.Name + "."
	}
	return d.DiscoveryText, nil
}

// SuggestActions просит модель предложить короткие действия внутри
// сайта. Отфильтровываются многословные строки; при любом сбое
// возвращается безопасный минимум.
func (r *SiteRegistry) SuggestActions(ctx context.Context, doc *domain.ChunkDocument, locName, siteName string) []string {
	fallback := []string{"look around"}

	loc, ok := doc.Locations[locName]
	if !ok {
		return fallback
	}
	site, ok := loc.Sites[siteName]
	if !ok {
		return fallback
	}

	systemPrompt := `You suggest actions in a fantasy exploration game.
Given a place, list 3-5 short verb phrases (at most 4 words each) the player could do there.
Return one phrase per line, no numbering, no commentary.`
	userPrompt := fmt.Sprintf("Place: %s\nDescription: %s", siteName, site.Description)

	raw, err := r.chat.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return fallback
	}

	var actions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ToLower(strings.TrimSpace(strings.Trim(line, "-*0123456789. ")))
		if line == "" || len(strings.Fields(line)) > 4 {
			continue
		}
		actions = append(actions, line)
		if len(actions) == 5 {
			break
		}
	}
	if len(actions) == 0 {
		return fallback
	}
	return actions
}

// HandleSiteAction выполняет свободное действие игрока внутри сайта:
// нарративный вызов в формате DESCRIPTION/STATS, применение дельты -
// на стороне вызывающего. Непарсибельный ответ - не ошибка: игрок
// видит сырой текст, статы не меняются.
func (r *SiteRegistry) HandleSiteAction(ctx context.Context, coord domain.Coord, doc *domain.ChunkDocument, p *domain.PlayerState, action string) (string, domain.StatDelta, error) {
	loc, ok := doc.Locations[p.LocationName]
	if !ok {
		return "", domain.StatDelta{}, fmt.Errorf("%w: location %q", domain.ErrSiteNotFound, p.LocationName)
	}
	site, ok := loc.Sites[p.PlaceName]
	if !ok {
		return "", domain.StatDelta{}, fmt.Errorf("%w: %q", domain.ErrSiteNotFound, p.PlaceName)
	}

	systemPrompt := fmt.Sprintf(`You narrate a fantasy exploration game. The player is at %q: %s
Player stats: money=%d, energy=%d, hunger=%d, thirst=%d, alignment=%d.
Narrate the outcome of the player's action and estimate stat changes.
Respond EXACTLY in this format:
DESCRIPTION: [1-3 sentences for the player]
STATS:
money: [+/- number or 0]
energy: [+/- number or 0]
hunger: [+/- number or 0]
thirst: [+/- number or 0]
alignment: [+/- number or 0]`,
		p.PlaceName, site.Description,
		p.Money, p.Energy, p.Hunger, p.Thirst, p.Alignment)

	raw, err := r.chat.Chat(ctx, systemPrompt, "The player decides to: "+action)
	if err != nil {
		return "", domain.StatDelta{}, fmt.Errorf("site action: %w", err)
	}

	desc, delta, err := ai.ParseStatResponse(raw)
	if err != nil {
		if errors.Is(err, domain.ErrNarrativeParseFailure) {
			return strings.TrimSpace(raw), domain.StatDelta{}, nil
		}
		return "", domain.StatDelta{}, err
	}

	site.HistoryOfEvents = append(site.HistoryOfEvents, "Player: "+action)
	if err := r.chunks.Update(coord, doc); err != nil {
		return "", domain.StatDelta{}, err
	}
	return desc, delta, nil
}
