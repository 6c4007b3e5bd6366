package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers/actions"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/internal/lore"
	"github.com/RoboSupreme/my-hex-game/internal/npc"
	"github.com/RoboSupreme/my-hex-game/internal/world"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Фоновый расход потребностей за каждое действие.
const (
	upkeepEnergy = -1
	upkeepHunger = -2
	upkeepThirst = -3

	// При любой потребности на нуле или около него здоровье тает.
	needsCritical    = 10
	starvationDamage = 5
)

// GameService - ядро игры. Сериализует все действия единственного
// игрока мьютексом: состояние в SQLite одно, параллельные действия
// не имеют смысла.
type GameService struct {
	mu sync.Mutex

	store  *storage.Store
	chunks *world.ChunkStore
	sites  *world.SiteRegistry
	npcs   *npc.Directory
	lore   *lore.Index
	chat   ai.Chatter

	handlers map[domain.ActionType]handlers.HandlerFunc
	log      *logrus.Entry
}

// NewService собирает игру поверх открытого хранилища. Генератор чанков
// передается снаружи: боевой - AIGenerator, офлайновый - ProcGenerator.
func NewService(store *storage.Store, chat ai.Chatter, gen world.Generator, loreIndex *lore.Index) *GameService {
	chunks := world.NewChunkStore(store, gen)
	s := &GameService{
		store:    store,
		chunks:   chunks,
		sites:    world.NewSiteRegistry(chunks, chat),
		npcs:     npc.NewDirectory(store, chat),
		lore:     loreIndex,
		chat:     chat,
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		log:      logger.WithComponent("engine"),
	}
	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionExit] = handlers.WithPayload(actions.HandleExit)
	s.handlers[domain.ActionEnterSite] = handlers.WithPayload(actions.HandleEnterSite)
	s.handlers[domain.ActionLeaveSite] = handlers.WithEmptyPayload(actions.HandleLeaveSite)
	s.handlers[domain.ActionSearchLocation] = handlers.WithEmptyPayload(actions.HandleSearchLocation)
	s.handlers[domain.ActionSearchSite] = handlers.WithEmptyPayload(actions.HandleSearchSite)
	s.handlers[domain.ActionSiteCustom] = handlers.WithPayload(actions.HandleSiteCustom)
	s.handlers[domain.ActionTalk] = handlers.WithPayload(actions.HandleTalk)
	s.handlers[domain.ActionEndTalk] = handlers.WithEmptyPayload(actions.HandleEndTalk)
	s.handlers[domain.ActionAskQuests] = handlers.WithEmptyPayload(actions.HandleAskQuests)
	s.handlers[domain.ActionAskRumors] = handlers.WithEmptyPayload(actions.HandleAskRumors)
	s.handlers[domain.ActionTrade] = handlers.WithEmptyPayload(actions.HandleTrade)
	s.handlers[domain.ActionRecruit] = handlers.WithPayload(actions.HandleRecruit)
	s.handlers[domain.ActionDismiss] = handlers.WithPayload(actions.HandleDismiss)
	s.handlers[domain.ActionRest] = handlers.WithEmptyPayload(actions.HandleRest)
	s.handlers[domain.ActionInventory] = handlers.WithEmptyPayload(actions.HandleInventory)
}

// State возвращает снимок состояния игрока и окружения.
func (s *GameService) State(ctx context.Context) (*api.StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, doc, err := s.loadWorld(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildState(p, doc)
}

// ApplyAction применяет одну текстовую команду игрока: парсинг, хендлер,
// дельта статов, фоновый расход потребностей, игровое время, сохранение.
func (s *GameService) ApplyAction(ctx context.Context, text string) (*api.ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, doc, err := s.loadWorld(ctx)
	if err != nil {
		return nil, err
	}

	cmd := parseAction(p, text)
	if cmd.Action == domain.ActionUnknown {
		return &api.ActionResult{OK: false, Message: "You are not sure how to do that.", MessageType: "ERROR"}, nil
	}
	s.log.WithFields(logrus.Fields{"action": cmd.Action.String(), "text": text}).Debug("Действие игрока")

	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return nil, fmt.Errorf("no handler for %s", cmd.Action)
	}

	hctx := handlers.Context{
		Ctx:     ctx,
		Player:  p,
		Chunk:   doc,
		Coord:   p.Coord(),
		Chunks:  s.chunks,
		Sites:   s.sites,
		NPCs:    s.npcs,
		Persist: s.store,
	}

	result, err := handler(hctx, cmd.Payload)
	if err != nil {
		if msg, ok := playerFacing(err); ok {
			return &api.ActionResult{OK: false, Message: msg, MessageType: "ERROR"}, nil
		}
		return nil, err
	}

	p.Apply(result.Delta)

	hours := result.Hours
	if hours == 0 {
		hours = 1
	}
	p.AdvanceTime(hours)
	s.applyUpkeep(p)

	if err := s.store.SavePlayerStats(p); err != nil {
		return nil, err
	}

	// Позиция могла смениться - стейт собираем по свежему чанку.
	freshDoc, err := s.chunks.GetOrCreate(ctx, p.Coord())
	if err != nil {
		return nil, err
	}
	state, err := s.buildState(p, freshDoc)
	if err != nil {
		return nil, err
	}
	msgType := result.MsgType
	if msgType == "" {
		msgType = "INFO"
	}
	return &api.ActionResult{OK: true, Message: result.Msg, MessageType: msgType, State: state}, nil
}

// applyUpkeep - фоновый расход потребностей после каждого действия.
// На критических потребностях начинает таять здоровье.
func (s *GameService) applyUpkeep(p *domain.PlayerState) {
	p.Apply(domain.StatDelta{Energy: upkeepEnergy, Hunger: upkeepHunger, Thirst: upkeepThirst})
	if p.Hunger <= needsCritical || p.Thirst <= needsCritical || p.Energy <= needsCritical {
		p.Health -= starvationDamage
		if p.Health < 0 {
			p.Health = 0
		}
	}
}

// loadWorld читает игрока и чанк, в котором он стоит.
func (s *GameService) loadWorld(ctx context.Context) (*domain.PlayerState, *domain.ChunkDocument, error) {
	p, err := s.store.GetPlayer()
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.chunks.GetOrCreate(ctx, p.Coord())
	if err != nil {
		return nil, nil, err
	}
	return p, doc, nil
}

// playerFacing переводит доменные ошибки в сообщения игроку.
// Остальные ошибки - внутренние, их видит только лог.
func playerFacing(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidMove):
		return "You can't go there from here.", true
	case errors.Is(err, domain.ErrMalformedExit):
		return "That path leads nowhere.", true
	case errors.Is(err, domain.ErrSiteNotFound):
		return "There is no such place here.", true
	case errors.Is(err, domain.ErrNotInsideSite):
		return "You need to be inside a place to do that.", true
	case errors.Is(err, domain.ErrNotInTeam):
		return "They are not in your team.", true
	case errors.Is(err, domain.ErrNotRecruitable):
		return "They are not here to recruit.", true
	case errors.Is(err, domain.ErrTeamFull):
		return "Your team is already full.", true
	}
	return "", false
}
