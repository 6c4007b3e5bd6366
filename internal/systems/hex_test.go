package systems

import (
	"errors"
	"testing"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

func TestParseExitToken_Valid(t *testing.T) {
	cases := []struct {
		token string
		want  domain.Coord
	}{
		{"exit:q+1,r0", domain.Coord{Q: 1, R: 0}},
		{"exit:q+1,r-1", domain.Coord{Q: 1, R: -1}},
		{"exit:q0,r-1", domain.Coord{Q: 0, R: -1}},
		{"exit:q-1,r0", domain.Coord{Q: -1, R: 0}},
		{"exit:q-1,r+1", domain.Coord{Q: -1, R: 1}},
		{"exit:q,r+1", domain.Coord{Q: 0, R: 1}}, // legacy zero without digit
		{"exit:q+0,r+1", domain.Coord{Q: 0, R: 1}},
	}

	for _, c := range cases {
		got, err := ParseExitToken(c.token)
		if err != nil {
			t.Errorf("ParseExitToken(%q) error: %v", c.token, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseExitToken(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestParseExitToken_Malformed(t *testing.T) {
	cases := []string{
		"exit:q+2,r0",  // not a unit direction
		"exit:q+1,r+1", // diagonal that does not exist on the axial grid
		"exit:q0,r0",   // zero delta
		"exit:abc",
		"exit:q+1",
		"forest", // not a token at all
		"exit:r+1,q0",
	}

	for _, token := range cases {
		if _, err := ParseExitToken(token); !errors.Is(err, domain.ErrMalformedExit) {
			t.Errorf("ParseExitToken(%q): expected ErrMalformedExit, got %v", token, err)
		}
	}
}

func TestFormatExitToken_RoundTrip(t *testing.T) {
	for _, dir := range domain.Directions {
		token := FormatExitToken(dir)
		got, err := ParseExitToken(token)
		if err != nil {
			t.Fatalf("round trip %v: %v", dir, err)
		}
		if got != dir {
			t.Errorf("round trip %v: got %v", dir, got)
		}
	}
}

func TestHasBackReference(t *testing.T) {
	conns := []string{"forest", "exit:q-1,r+0"}

	if !HasBackReference(conns, domain.Coord{Q: -1, R: 0}) {
		t.Error("expected semantic match for q-1,r+0")
	}
	if HasBackReference(conns, domain.Coord{Q: 1, R: 0}) {
		t.Error("unexpected match for opposite direction")
	}
	if HasBackReference([]string{"village"}, domain.Coord{Q: -1, R: 0}) {
		t.Error("location names must not match")
	}
}

func TestCoordNeg(t *testing.T) {
	for _, dir := range domain.Directions {
		back := dir.Neg()
		if !back.IsUnitDirection() {
			t.Errorf("negation of %v is not a unit direction", dir)
		}
		if back.Add(dir) != (domain.Coord{}) {
			t.Errorf("%v + its negation != origin", dir)
		}
	}
}
