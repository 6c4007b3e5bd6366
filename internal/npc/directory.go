package npc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// TeamCap - предел размера отряда игрока.
const TeamCap = 4

// spawnChance - вероятность появления NPC в пустой локации при визите.
const spawnChance = 0.5

// Directory управляет NPC: появление в локациях, вербовка и роспуск,
// диалоги с накоплением памяти.
type Directory struct {
	store *storage.Store
	chat  ai.Chatter
	// roll подменяется в тестах, чтобы спавн был детерминированным.
	roll func() float64
	log  *logrus.Entry
}

func NewDirectory(store *storage.Store, chat ai.Chatter) *Directory {
	return &Directory{
		store: store,
		chat:  chat,
		roll:  rand.Float64,
		log:   logger.WithComponent("npc"),
	}
}

// At возвращает NPC, находящихся в локации (кроме распущенных).
func (d *Directory) At(coord domain.Coord, locationName string) ([]*domain.NPCRecord, error) {
	return d.store.NPCsAt(coord, locationName)
}

// EnsurePresence бросает кубик на появление NPC в пустой локации.
// Вызывается при входе игрока; в населенной локации ничего не делает.
func (d *Directory) EnsurePresence(ctx context.Context, coord domain.Coord, locationName string) error {
	present, err := d.store.NPCsAt(coord, locationName)
	if err != nil {
		return err
	}
	if len(present) > 0 || d.roll() >= spawnChance {
		return nil
	}

	rec := d.inventNPC(ctx, locationName)
	rec.HomeQ, rec.HomeR = coord.Q, coord.R
	rec.CurrentQ, rec.CurrentR = coord.Q, coord.R
	rec.LocationName = locationName

	id, err := d.store.CreateNPC(rec)
	if err != nil {
		return fmt.Errorf("spawn npc: %w", err)
	}
	d.log.WithFields(logrus.Fields{"npc_id": id, "name": rec.Name, "location": locationName}).
		Info("В локации появился NPC")
	return nil
}

type npcSketch struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	NPCType     string `json:"npc_type"`
}

// inventNPC просит модель придумать персонажа; при сбое берется
// скромный бродяга, чтобы спавн не зависел от доступности модели.
func (d *Directory) inventNPC(ctx context.Context, locationName string) *domain.NPCRecord {
	fallback := &domain.NPCRecord{
		Name:        "Wanderer",
		Personality: "A quiet traveler who keeps to themselves but knows the roads well.",
		NPCType:     "wanderer",
	}

	systemPrompt := fmt.Sprintf(`Invent a character the player meets in %q in a fantasy exploration game.
Return ONLY JSON: {"name": "...", "personality": "2-3 sentences", "npc_type": "villager|merchant|wanderer|guard"}`,
		locationName)

	raw, err := d.chat.Chat(ctx, systemPrompt, "Create the character.")
	if err != nil {
		return fallback
	}
	var sk npcSketch
	if err := json.Unmarshal([]byte(strings.Trim(strings.TrimSpace(raw), "`")), &sk); err != nil || sk.Name == "" {
		return fallback
	}
	if sk.NPCType == "" {
		sk.NPCType = "wanderer"
	}
	return &domain.NPCRecord{Name: sk.Name, Personality: sk.Personality, NPCType: sk.NPCType}
}

// Find ищет NPC по имени среди стоящих в локации игрока и в его отряде.
// nil без ошибки - такого NPC рядом нет.
func (d *Directory) Find(p *domain.PlayerState, name string) (*domain.NPCRecord, error) {
	rec, err := d.store.GetNPCByName(name, p.Coord(), p.LocationName)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	for _, id := range p.NPCTeam {
		member, err := d.store.GetNPC(id)
		if err != nil {
			return nil, err
		}
		if member != nil && strings.EqualFold(member.Name, name) {
			return member, nil
		}
	}
	return nil, nil
}

// Team возвращает записи всех членов отряда.
func (d *Directory) Team(p *domain.PlayerState) ([]*domain.NPCRecord, error) {
	team := make([]*domain.NPCRecord, 0, len(p.NPCTeam))
	for _, id := range p.NPCTeam {
		rec, err := d.store.GetNPC(id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			team = append(team, rec)
		}
	}
	return team, nil
}

// Recruit берет NPC по имени в отряд. NPC должен находиться в локации
// игрока; отряд ограничен TeamCap.
func (d *Directory) Recruit(p *domain.PlayerState, name string) (*domain.NPCRecord, error) {
	if len(p.NPCTeam) >= TeamCap {
		return nil, fmt.Errorf("%w: team size %d", domain.ErrTeamFull, len(p.NPCTeam))
	}

	rec, err := d.store.GetNPCByName(name, p.Coord(), p.LocationName)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Status != domain.NPCStatusActive {
		return nil, fmt.Errorf("%w: %q is not here", domain.ErrNotRecruitable, name)
	}

	if err := d.store.SetNPCStatus(rec.ID, domain.NPCStatusInTeam); err != nil {
		return nil, err
	}
	p.NPCTeam = append(p.NPCTeam, rec.ID)
	if err := d.store.SavePlayerTeam(p.NPCTeam); err != nil {
		return nil, err
	}
	rec.Status = domain.NPCStatusInTeam
	return rec, nil
}

// Dismiss отпускает NPC из отряда. NPC остается в текущей локации
// игрока со статусом active и может быть завербован снова.
func (d *Directory) Dismiss(p *domain.PlayerState, npcID int64) (*domain.NPCRecord, error) {
	if !p.InTeam(npcID) {
		return nil, fmt.Errorf("%w: npc %d", domain.ErrNotInTeam, npcID)
	}
	rec, err := d.store.GetNPC(npcID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: npc %d", domain.ErrNotInTeam, npcID)
	}

	if err := d.store.SetNPCStatus(npcID, domain.NPCStatusActive); err != nil {
		return nil, err
	}
	if err := d.store.UpdateNPCLocation(npcID, p.Coord(), p.LocationName, ""); err != nil {
		return nil, err
	}

	team := make([]int64, 0, len(p.NPCTeam))
	for _, id := range p.NPCTeam {
		if id != npcID {
			team = append(team, id)
		}
	}
	p.NPCTeam = team
	if err := d.store.SavePlayerTeam(team); err != nil {
		return nil, err
	}
	rec.Status = domain.NPCStatusActive
	return rec, nil
}

// Talk - реплика игрока в адрес NPC. Ответ модели опирается на характер
// персонажа и последние записи его памяти; обмен пишется и в память NPC,
// и в журнал разговоров.
func (d *Directory) Talk(ctx context.Context, p *domain.PlayerState, npcID int64, message string) (string, error) {
	rec, err := d.store.GetNPC(npcID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("%w: npc %d", domain.ErrNotInTeam, npcID)
	}

	var memory strings.Builder
	for _, m := range rec.RecentMemory(5) {
		if m.Summary != "" {
			memory.WriteString("- " + m.Summary + "\n")
			continue
		}
		memory.WriteString(fmt.Sprintf("- player: %s / you: %s\n", m.PlayerInput, m.NPCResponse))
	}

	systemPrompt := fmt.Sprintf(`You are %s, a character in a fantasy exploration game.
Personality: %s
You are in %s. What you remember about the player:
%s
Stay in character. Answer in 1-3 sentences, speech only, no narration.`,
		rec.Name, rec.Personality, rec.LocationName, memory.String())

	reply, err := d.chat.Chat(ctx, systemPrompt, message)
	if err != nil {
		return "", fmt.Errorf("npc talk: %w", err)
	}
	reply = strings.TrimSpace(reply)

	entry := domain.NPCMemoryEntry{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		PlayerInput: message,
		NPCResponse: reply,
	}
	if err := d.store.AppendNPCMemory(npcID, entry); err != nil {
		return "", err
	}
	if err := d.store.RecordConversation(npcID, message, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// AskQuests спрашивает NPC о делах, за которые можно взяться.
func (d *Directory) AskQuests(ctx context.Context, p *domain.PlayerState, npcID int64) (string, error) {
	return d.Talk(ctx, p, npcID,
		"Do you have any tasks or quests for me? Tell me about one concrete thing I could do.")
}

// AskRumors спрашивает NPC о слухах про окрестности.
func (d *Directory) AskRumors(ctx context.Context, p *domain.PlayerState, npcID int64) (string, error) {
	return d.Talk(ctx, p, npcID,
		"What rumors have you heard lately about these lands?")
}

// Trade - попытка поторговать. Сам обмен отыгрывается нарративно,
// дельту денег считает обработчик действия по ответу.
func (d *Directory) Trade(ctx context.Context, p *domain.PlayerState, npcID int64) (string, error) {
	return d.Talk(ctx, p, npcID,
		fmt.Sprintf("I'd like to trade. I have %d coins. What can you offer?", p.Money))
}
