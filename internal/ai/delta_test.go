package ai

import (
	"errors"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

func TestParseStatResponse_WellFormed(t *testing.T) {
	raw := `DESCRIPTION: You buy a loaf of warm bread from the innkeeper.
STATS:
money: -2
energy: +5
hunger: 10
alignment: 0`

	desc, delta, err := ParseStatResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if desc != "You buy a loaf of warm bread from the innkeeper." {
		t.Errorf("description = %q", desc)
	}
	want := domain.StatDelta{Money: -2, Energy: 5, Hunger: 10}
	if delta != want {
		t.Errorf("delta = %+v, want %+v", delta, want)
	}
}

func TestParseStatResponse_PartialGarbage(t *testing.T) {
	raw := `DESCRIPTION: The cat purrs.
STATS:
money: none
energy: +3`

	desc, delta, err := ParseStatResponse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if desc == "" {
		t.Error("description lost")
	}
	if delta.Money != 0 || delta.Energy != 3 {
		t.Errorf("delta = %+v", delta)
	}
}

func TestParseStatResponse_Unparseable(t *testing.T) {
	_, delta, err := ParseStatResponse("The spirits whisper of distant lands.")
	if !errors.Is(err, domain.ErrNarrativeParseFailure) {
		t.Fatalf("expected ErrNarrativeParseFailure, got %v", err)
	}
	if !delta.IsZero() {
		t.Errorf("failed parse must yield zero delta, got %+v", delta)
	}
}

func TestApplyDelta_Clamping(t *testing.T) {
	p := domain.DefaultPlayer()
	p.Money = 1
	p.Energy = 99

	p.Apply(domain.StatDelta{Money: -10, Energy: 5, Alignment: -200})

	if p.Money != 0 {
		t.Errorf("money must clamp at 0, got %d", p.Money)
	}
	if p.Energy != 100 {
		t.Errorf("energy must clamp at 100, got %d", p.Energy)
	}
	if p.Alignment != 0 {
		t.Errorf("alignment must clamp at 0, got %d", p.Alignment)
	}
}
