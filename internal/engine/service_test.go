package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/internal/lore"
	"github.com/RoboSupreme/my-hex-game/internal/world"
)

// routedChat подбирает ответ по содержимому системного промпта - тест
// не зависит от порядка генеративных вызовов (спавн NPC случаен).
type routedChat struct {
	routes map[string]string // подстрока промпта -> ответ
}

func (r *routedChat) Chat(_ context.Context, systemPrompt, _ string) (string, error) {
	for match, reply := range r.routes {
		if strings.Contains(systemPrompt, match) {
			return reply, nil
		}
	}
	return "", errors.New("no route for prompt")
}

// flatEmbedder дает всем текстам одинаковый вектор: для проверок движка
// качество ранжирования лора не важно.
type flatEmbedder struct{}

func (flatEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func newTestService(t *testing.T, routes map[string]string) *GameService {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	chat := &routedChat{routes: routes}
	return NewService(s, chat, world.NewAIGenerator(chat), lore.NewIndex(s, flatEmbedder{}, "test_lore"))
}

// Без маршрута для генерации чанков каждый чанк - детерминированная
// заглушка village+forest.
func TestApplyAction_MoveAndUpkeep(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "go to forest")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("move rejected: %s", res.Message)
	}
	if res.State.Player.LocationName != "forest" {
		t.Errorf("location = %q", res.State.Player.LocationName)
	}

	p, err := svc.store.GetPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if p.LocationName != "forest" {
		t.Error("move not persisted")
	}
	if p.TimeHour != 9 {
		t.Errorf("action must cost one hour, hour = %d", p.TimeHour)
	}
	if p.Energy != 99 || p.Hunger != 98 || p.Thirst != 97 {
		t.Errorf("upkeep not applied: energy=%d hunger=%d thirst=%d", p.Energy, p.Hunger, p.Thirst)
	}
}

func TestApplyAction_InvalidMoveCostsNothing(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "go to nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("move to unconnected location must be rejected")
	}

	p, _ := svc.store.GetPlayer()
	if p.TimeHour != 8 || p.Hunger != 100 {
		t.Error("rejected action must not advance time or burn needs")
	}
	if p.LocationName != "village" {
		t.Error("rejected action must not move the player")
	}
}

func TestApplyAction_ExitRoundTrip(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "exit chunk")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("exit rejected: %s", res.Message)
	}
	p, _ := svc.store.GetPlayer()
	if p.Coord() != (domain.Coord{Q: 1, R: -1}) {
		t.Fatalf("exit landed at %s", p.Coord())
	}

	// Дорога назад приводит в village по обратной ссылке.
	res, err = svc.ApplyAction(context.Background(), "exit:q-1,r+1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("return rejected: %s", res.Message)
	}
	p, _ = svc.store.GetPlayer()
	if p.Coord() != domain.Origin || p.LocationName != "village" {
		t.Errorf("round trip landed at %s %q", p.Coord(), p.LocationName)
	}
}

func TestApplyAction_Rest(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "rest")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("rest rejected: %s", res.Message)
	}

	p, _ := svc.store.GetPlayer()
	if p.TimeHour != 16 {
		t.Errorf("rest must cost 8 hours, hour = %d", p.TimeHour)
	}
	if p.Energy != 99 {
		// 100 +50 (кап 100) -1 фонового расхода
		t.Errorf("energy = %d", p.Energy)
	}
}

func TestApplyAction_UnknownText(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "frobnicate the weather")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("unknown command outside a site must be rejected")
	}
}

func TestApplyAction_SiteFlow(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"narrate a search": `{"discovery_text": "You notice the town hall doors.", "revealed_site": "town_hall"}`,
		"Expand the given place description": "Dust motes drift through the hall.",
		"Narrate the outcome":                "DESCRIPTION: You pay the clerk a small fee.\nSTATS:\nmoney: -2",
	})
	ctx := context.Background()

	res, err := svc.ApplyAction(ctx, "search location")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Message != "You notice the town hall doors." {
		t.Fatalf("search: ok=%v msg=%q", res.OK, res.Message)
	}
	if len(res.State.Location.Sites) != 1 || res.State.Location.Sites[0] != "town_hall" {
		t.Fatalf("sites after search: %v", res.State.Location.Sites)
	}

	res, err = svc.ApplyAction(ctx, "enter town_hall")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || !strings.Contains(res.Message, "Dust motes") {
		t.Fatalf("enter: ok=%v msg=%q", res.OK, res.Message)
	}
	if res.State.Player.PlaceName != "town_hall" {
		t.Errorf("place = %q", res.State.Player.PlaceName)
	}

	// Свободный текст внутри сайта отыгрывается нарративно с дельтой.
	res, err = svc.ApplyAction(ctx, "pay the fee")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Message != "You pay the clerk a small fee." {
		t.Fatalf("custom action: ok=%v msg=%q", res.OK, res.Message)
	}
	if res.State.Player.Money != 48 {
		t.Errorf("money = %d", res.State.Player.Money)
	}

	res, err = svc.ApplyAction(ctx, "leave site")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.State.Player.PlaceName != "" {
		t.Errorf("leave: ok=%v place=%q", res.OK, res.State.Player.PlaceName)
	}
}

func TestApplyAction_SearchSiteOutside(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.ApplyAction(context.Background(), "search place")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("searching a site from outside must be rejected")
	}

	p, _ := svc.store.GetPlayer()
	if p.TimeHour != 8 {
		t.Error("rejected search must not advance time")
	}
}

func TestPossibleActions_Outside(t *testing.T) {
	svc := newTestService(t, nil)

	acts, err := svc.PossibleActions(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"go to forest", "exit:q+1,r-1", "search location", "rest", "check inventory"}
	for _, w := range want {
		if !contains(acts, w) {
			t.Errorf("actions missing %q: %v", w, acts)
		}
	}
	if contains(acts, "enter town_hall") {
		t.Error("undiscovered site must not be offered")
	}
}

func TestPossibleActions_Talking(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.store.GetPlayer(); err != nil {
		t.Fatal(err)
	}

	id, err := svc.store.CreateNPC(&domain.NPCRecord{
		Name: "Noah", Personality: "calm", LocationName: "village",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.store.SetEngagedNPC(id); err != nil {
		t.Fatal(err)
	}

	acts, err := svc.PossibleActions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ask about quests", "ask about rumors", "trade", "end talk"}
	if len(acts) != len(want) {
		t.Fatalf("talking actions = %v", acts)
	}
	for i := range want {
		if acts[i] != want[i] {
			t.Fatalf("talking actions = %v", acts)
		}
	}
}

func TestAnswerQuestion_UsesLore(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"Spirit of the World": "The dragon sleeps beneath the northern peaks.",
	})

	if _, err := svc.lore.Seed(context.Background(), "world", "Dragons guard the north."); err != nil {
		t.Fatal(err)
	}

	answer, err := svc.AnswerQuestion(context.Background(), "Where do dragons live?")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "The dragon sleeps beneath the northern peaks." {
		t.Errorf("answer = %q", answer)
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
