package storage

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetPlayer_CreatesDefault(t *testing.T) {
	s := openTestStore(t)

	p, err := s.GetPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if p.LocationName != "village" || p.Q != 0 || p.R != 0 {
		t.Errorf("default player must start in village(0,0), got %s %s", p.LocationName, p.Coord())
	}
	if p.Health != 100 || p.Money != 50 {
		t.Errorf("default stats wrong: health=%d money=%d", p.Health, p.Money)
	}
	if p.InsideSite() {
		t.Error("new player must not be inside a site")
	}

	// Повторное чтение не создает вторую строку.
	again, err := s.GetPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if again.PlayerID != p.PlayerID {
		t.Error("player row must be a singleton")
	}
}

func TestPlayer_PositionAndTeam(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetPlayer(); err != nil {
		t.Fatal(err)
	}

	if err := s.SetPlayerChunk(domain.Coord{Q: 2, R: -1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPlayerLocation("forest"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPlayerPlace("hidden_grove"); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePlayerTeam([]int64{3, 7}); err != nil {
		t.Fatal(err)
	}

	p, err := s.GetPlayer()
	if err != nil {
		t.Fatal(err)
	}
	if p.Coord() != (domain.Coord{Q: 2, R: -1}) || p.LocationName != "forest" {
		t.Errorf("position not persisted: %s %s", p.Coord(), p.LocationName)
	}
	if p.PlaceName != "hidden_grove" {
		t.Errorf("place = %q", p.PlaceName)
	}
	if !p.InTeam(3) || !p.InTeam(7) || p.InTeam(5) {
		t.Errorf("team not persisted: %v", p.NPCTeam)
	}

	// Смена локации обязана выводить игрока из сайта.
	if err := s.SetPlayerLocation("village"); err != nil {
		t.Fatal(err)
	}
	p, _ = s.GetPlayer()
	if p.InsideSite() {
		t.Error("changing location must clear place_name")
	}
}

func TestChunk_RoundTripKeepsOrder(t *testing.T) {
	s := openTestStore(t)

	raw := `{"locations":{
		"zeta":{"visible":true,"connections":["alpha"],"description":"z","history_of_events":[],"sites":{}},
		"alpha":{"visible":true,"connections":["zeta","exit:q+1,r0"],"description":"a","history_of_events":[],"sites":{}}
	}}`
	var doc domain.ChunkDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}

	coord := domain.Coord{Q: 1, R: 1}
	if err := s.InsertChunk(coord, &doc); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := s.GetChunk(coord)
	if err != nil || !ok {
		t.Fatalf("get chunk: ok=%v err=%v", ok, err)
	}

	names := loaded.LocationNames()
	if len(names) != 2 || names[0] != "zeta" || names[1] != "alpha" {
		t.Errorf("insertion order lost: %v", names)
	}

	// Обновление целиком: дописываем событие и перечитываем.
	loaded.Locations["alpha"].HistoryOfEvents = append(
		loaded.Locations["alpha"].HistoryOfEvents, "Found new site: well")
	if err := s.UpdateChunk(coord, loaded); err != nil {
		t.Fatal(err)
	}
	reread, _, err := s.GetChunk(coord)
	if err != nil {
		t.Fatal(err)
	}
	if len(reread.Locations["alpha"].HistoryOfEvents) != 1 {
		t.Error("history event not persisted")
	}

	if _, ok, _ := s.GetChunk(domain.Coord{Q: 9, R: 9}); ok {
		t.Error("missing chunk must report ok=false")
	}
}

func TestNPC_CreateQueryMemory(t *testing.T) {
	s := openTestStore(t)

	id, err := s.CreateNPC(&domain.NPCRecord{
		Name:        "Noah",
		Personality: "A friendly wanderer who loves to share stories.",
		HomeQ:       0, HomeR: 0,
		CurrentQ: 0, CurrentR: 0,
		LocationName: "village",
	})
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.GetNPC(id)
	if err != nil {
		t.Fatal(err)
	}
	if n == nil || n.Name != "Noah" || n.Status != domain.NPCStatusActive {
		t.Fatalf("npc not persisted: %+v", n)
	}

	at, err := s.NPCsAt(domain.Coord{Q: 0, R: 0}, "village")
	if err != nil {
		t.Fatal(err)
	}
	if len(at) != 1 {
		t.Fatalf("NPCsAt = %d", len(at))
	}

	// dismissed не возвращается
	if err := s.SetNPCStatus(id, domain.NPCStatusDismissed); err != nil {
		t.Fatal(err)
	}
	at, _ = s.NPCsAt(domain.Coord{Q: 0, R: 0}, "village")
	if len(at) != 0 {
		t.Error("dismissed npc must be filtered out")
	}

	if err := s.AppendNPCMemory(id, domain.NPCMemoryEntry{Summary: "met the hero"}); err != nil {
		t.Fatal(err)
	}
	n, _ = s.GetNPC(id)
	if len(n.Memory) != 1 || n.Memory[0].Summary != "met the hero" {
		t.Errorf("memory not appended: %+v", n.Memory)
	}

	if byName, _ := s.GetNPCByName("Noah", domain.Coord{Q: 5, R: 5}, "village"); byName != nil {
		t.Error("GetNPCByName must respect coordinates")
	}
}

func TestLore_VectorRoundTrip(t *testing.T) {
	s := openTestStore(t)

	c := LoreChunk{
		DocID:     "lore_chunk0",
		Title:     "lore",
		Content:   "The Hex World is divided into hexagonal chunks.",
		Embedding: []float32{0.25, -1, 3.5},
	}
	if err := s.InsertLoreChunk("test", c); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoreChunks("test")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("LoreChunks = %d", len(got))
	}
	if len(got[0].Embedding) != 3 || got[0].Embedding[2] != 3.5 {
		t.Errorf("embedding round trip failed: %v", got[0].Embedding)
	}

	// Повторная вставка того же doc_id перезаписывает, а не дублирует.
	c.Content = "updated"
	if err := s.InsertLoreChunk("test", c); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoreChunks("test")
	if len(got) != 1 || got[0].Content != "updated" {
		t.Errorf("upsert failed: %+v", got)
	}
}

func TestExportWorld(t *testing.T) {
	s := openTestStore(t)

	raw := `{"locations":{"village":{"visible":true,"connections":[],"description":"d","history_of_events":[],"sites":{}}}}`
	var doc domain.ChunkDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertChunk(domain.Coord{Q: 0, R: 0}, &doc); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportWorld(&buf); err != nil {
		t.Fatal(err)
	}

	snap, err := ReadWorldSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Chunks) != 1 || snap.Chunks[0].Q != 0 {
		t.Errorf("snapshot content wrong: %+v", snap)
	}
}
