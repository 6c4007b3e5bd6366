package npc

import (
	"context"
	"errors"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
)

type fixedChat struct {
	reply string
	err   error
	calls int
}

func (f *fixedChat) Chat(context.Context, string, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func newTestDirectory(t *testing.T, chat *fixedChat) (*Directory, *storage.Store) {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return NewDirectory(s, chat), s
}

func seedNPC(t *testing.T, s *storage.Store, name string, coord domain.Coord, loc string) int64 {
	t.Helper()
	id, err := s.CreateNPC(&domain.NPCRecord{
		Name:        name,
		Personality: "Gruff but fair.",
		HomeQ:       coord.Q, HomeR: coord.R,
		CurrentQ: coord.Q, CurrentR: coord.R,
		LocationName: loc,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestEnsurePresence_SpawnRoll(t *testing.T) {
	chat := &fixedChat{reply: `{"name": "Mira", "personality": "Curious herbalist.", "npc_type": "villager"}`}
	d, s := newTestDirectory(t, chat)
	coord := domain.Coord{Q: 1, R: 0}

	// Неудачный бросок - никто не появляется.
	d.roll = func() float64 { return 0.9 }
	if err := d.EnsurePresence(context.Background(), coord, "glade"); err != nil {
		t.Fatal(err)
	}
	if at, _ := s.NPCsAt(coord, "glade"); len(at) != 0 {
		t.Fatalf("failed roll must not spawn, got %d", len(at))
	}

	// Удачный бросок - появляется ровно один.
	d.roll = func() float64 { return 0.1 }
	if err := d.EnsurePresence(context.Background(), coord, "glade"); err != nil {
		t.Fatal(err)
	}
	at, _ := s.NPCsAt(coord, "glade")
	if len(at) != 1 || at[0].Name != "Mira" {
		t.Fatalf("spawn failed: %+v", at)
	}

	// В населенной локации повторный визит никого не добавляет.
	if err := d.EnsurePresence(context.Background(), coord, "glade"); err != nil {
		t.Fatal(err)
	}
	if at, _ := s.NPCsAt(coord, "glade"); len(at) != 1 {
		t.Error("occupied location must not spawn again")
	}
}

func TestEnsurePresence_ModelFailureFallsBack(t *testing.T) {
	d, s := newTestDirectory(t, &fixedChat{err: errors.New("down")})
	d.roll = func() float64 { return 0 }

	if err := d.EnsurePresence(context.Background(), domain.Origin, "village"); err != nil {
		t.Fatal(err)
	}
	at, _ := s.NPCsAt(domain.Origin, "village")
	if len(at) != 1 || at[0].Name != "Wanderer" {
		t.Fatalf("fallback npc expected, got %+v", at)
	}
}

func TestRecruitAndDismiss(t *testing.T) {
	d, s := newTestDirectory(t, &fixedChat{})
	p := domain.DefaultPlayer()
	id := seedNPC(t, s, "Noah", p.Coord(), p.LocationName)

	rec, err := d.Recruit(p, "Noah")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != id || rec.Status != domain.NPCStatusInTeam {
		t.Errorf("recruit result: %+v", rec)
	}
	if !p.InTeam(id) {
		t.Error("recruit must update the team")
	}

	// Завербованный не стоит в локации как доступный.
	stored, _ := s.GetNPC(id)
	if stored.Status != domain.NPCStatusInTeam {
		t.Errorf("status = %q", stored.Status)
	}

	// Роспуск возвращает NPC в текущую локацию игрока.
	p.Q, p.R, p.LocationName = 2, 2, "hills"
	if _, err := d.Dismiss(p, id); err != nil {
		t.Fatal(err)
	}
	if p.InTeam(id) {
		t.Error("dismiss must remove from team")
	}
	at, _ := s.NPCsAt(domain.Coord{Q: 2, R: 2}, "hills")
	if len(at) != 1 || at[0].ID != id {
		t.Errorf("dismissed npc must stand in the player's location: %+v", at)
	}
}

func TestRecruit_NotPresent(t *testing.T) {
	d, s := newTestDirectory(t, &fixedChat{})
	p := domain.DefaultPlayer()
	seedNPC(t, s, "Far Away", domain.Coord{Q: 5, R: 5}, "desert")

	if _, err := d.Recruit(p, "Far Away"); !errors.Is(err, domain.ErrNotRecruitable) {
		t.Fatalf("expected ErrNotRecruitable, got %v", err)
	}
	if len(p.NPCTeam) != 0 {
		t.Error("failed recruit must leave the team unchanged")
	}
}

func TestRecruit_TeamFull(t *testing.T) {
	d, s := newTestDirectory(t, &fixedChat{})
	p := domain.DefaultPlayer()
	p.NPCTeam = []int64{10, 11, 12, 13}
	seedNPC(t, s, "Fifth", p.Coord(), p.LocationName)

	if _, err := d.Recruit(p, "Fifth"); !errors.Is(err, domain.ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}
}

func TestDismiss_NotInTeam(t *testing.T) {
	d, _ := newTestDirectory(t, &fixedChat{})
	p := domain.DefaultPlayer()

	if _, err := d.Dismiss(p, 42); !errors.Is(err, domain.ErrNotInTeam) {
		t.Fatalf("expected ErrNotInTeam, got %v", err)
	}
}

func TestTalk_RecordsMemory(t *testing.T) {
	chat := &fixedChat{reply: "Well met, traveler."}
	d, s := newTestDirectory(t, chat)
	p := domain.DefaultPlayer()
	id := seedNPC(t, s, "Noah", p.Coord(), p.LocationName)

	reply, err := d.Talk(context.Background(), p, id, "Hello!")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Well met, traveler." {
		t.Errorf("reply = %q", reply)
	}

	rec, _ := s.GetNPC(id)
	if len(rec.Memory) != 1 || rec.Memory[0].PlayerInput != "Hello!" {
		t.Errorf("memory not recorded: %+v", rec.Memory)
	}
}
