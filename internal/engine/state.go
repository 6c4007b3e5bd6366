package engine

import (
	"context"
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/world"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// Сколько последних событий локации показывать в стейте.
const historyTail = 5

// buildState собирает персональный снимок мира для клиента.
func (s *GameService) buildState(p *domain.PlayerState, doc *domain.ChunkDocument) (*api.StateResponse, error) {
	loc, ok := doc.Locations[p.LocationName]
	if !ok {
		return nil, fmt.Errorf("player location %q missing from chunk %s", p.LocationName, p.Coord())
	}

	history := loc.HistoryOfEvents
	if len(history) > historyTail {
		history = history[len(history)-historyTail:]
	}

	state := &api.StateResponse{
		Player: api.PlayerView{
			Q:            p.Q,
			R:            p.R,
			LocationName: p.LocationName,
			PlaceName:    p.PlaceName,
			Health:       p.Health,
			Attack:       p.Attack,
			Defense:      p.Defense,
			Agility:      p.Agility,
			Money:        p.Money,
			Energy:       p.Energy,
			Hunger:       p.Hunger,
			Thirst:       p.Thirst,
			Alignment:    p.Alignment,
			Inventory:    p.Inventory,
			Time: fmt.Sprintf("Year %d, Month %d, Day %d, %02d:00",
				p.TimeYear, p.TimeMonth, p.TimeDay, p.TimeHour),
		},
		Location: api.LocationView{
			Name:        p.LocationName,
			Description: loc.Description,
			Moves:       world.LocalMoves(doc, p.LocationName),
			Exits:       world.Exits(doc, p.LocationName),
			Sites:       world.DiscoveredSites(doc, p.LocationName),
			History:     history,
		},
	}

	present, err := s.npcs.At(p.Coord(), p.LocationName)
	if err != nil {
		return nil, err
	}
	for _, n := range present {
		if n.Status != domain.NPCStatusActive {
			continue
		}
		state.NPCs = append(state.NPCs, npcView(n))
	}

	team, err := s.npcs.Team(p)
	if err != nil {
		return nil, err
	}
	for _, n := range team {
		state.Team = append(state.Team, npcView(n))
	}

	if p.CurrentNPCID != 0 {
		if rec, err := s.store.GetNPC(p.CurrentNPCID); err == nil && rec != nil {
			state.TalkingTo = rec.Name
		}
	}
	return state, nil
}

func npcView(n *domain.NPCRecord) api.NPCView {
	return api.NPCView{ID: n.ID, Name: n.Name, NPCType: n.NPCType, Status: n.Status}
}

// PossibleActions возвращает текстовые команды, доступные игроку сейчас.
// Каждую из них можно отправить в ApplyAction дословно.
func (s *GameService) PossibleActions(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, doc, err := s.loadWorld(ctx)
	if err != nil {
		return nil, err
	}

	// Разговор перекрывает остальные действия.
	if p.CurrentNPCID != 0 {
		return []string{"ask about quests", "ask about rumors", "trade", "end talk"}, nil
	}

	if p.InsideSite() {
		acts := s.sites.SuggestActions(ctx, doc, p.LocationName, p.PlaceName)
		acts = append(acts, "search place", "leave site")
		return acts, nil
	}

	var acts []string
	for _, name := range world.LocalMoves(doc, p.LocationName) {
		acts = append(acts, "go to "+name)
	}
	acts = append(acts, world.Exits(doc, p.LocationName)...)
	for _, name := range world.DiscoveredSites(doc, p.LocationName) {
		acts = append(acts, "enter "+name)
	}
	acts = append(acts, "search location")

	present, err := s.npcs.At(p.Coord(), p.LocationName)
	if err != nil {
		return nil, err
	}
	for _, n := range present {
		if n.Status != domain.NPCStatusActive {
			continue
		}
		acts = append(acts, "talk to "+n.Name, "recruit "+n.Name)
	}
	team, err := s.npcs.Team(p)
	if err != nil {
		return nil, err
	}
	for _, n := range team {
		acts = append(acts, "dismiss "+n.Name)
	}

	return append(acts, "rest", "check inventory"), nil
}
