package systems

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// ExitPrefix - префикс exit-токена в списке connections локации.
// Полная форма: "exit:q+1,r-1". Генератор исторически пишет ноль
// по-разному ("r0", "r+0", иногда просто "r"), парсер принимает все три.
const ExitPrefix = "exit:"

// IsExitToken отличает exit-токен от имени локации в connections.
func IsExitToken(s string) bool {
	return strings.HasPrefix(s, ExitPrefix)
}

// ParseExitToken разбирает токен в дельту координат и проверяет, что она
// является одним из шести единичных направлений гексагональной сетки.
// Любое другое смещение - ErrMalformedExit: телепортов через чанк не бывает.
func ParseExitToken(token string) (domain.Coord, error) {
	if !IsExitToken(token) {
		return domain.Coord{}, fmt.Errorf("%w: %q", domain.ErrMalformedExit, token)
	}
	body := strings.TrimPrefix(token, ExitPrefix)
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return domain.Coord{}, fmt.Errorf("%w: %q", domain.ErrMalformedExit, token)
	}

	dq, err := parseAxisPart(parts[0], "q")
	if err != nil {
		return domain.Coord{}, fmt.Errorf("%w: %q", domain.ErrMalformedExit, token)
	}
	dr, err := parseAxisPart(parts[1], "r")
	if err != nil {
		return domain.Coord{}, fmt.Errorf("%w: %q", domain.ErrMalformedExit, token)
	}

	delta := domain.Coord{Q: dq, R: dr}
	if !delta.IsUnitDirection() {
		return domain.Coord{}, fmt.Errorf("%w: %q is not a neighbor direction", domain.ErrMalformedExit, token)
	}
	return delta, nil
}

// parseAxisPart разбирает "q+1", "q-1", "q0", "q+0" или просто "q" (ноль).
func parseAxisPart(part, axis string) (int, error) {
	part = strings.TrimSpace(part)
	if !strings.HasPrefix(part, axis) {
		return 0, fmt.Errorf("expected axis %q", axis)
	}
	num := part[len(axis):]
	if num == "" {
		return 0, nil
	}
	return strconv.Atoi(num)
}

// FormatExitToken - каноническая запись exit-токена для дельты.
func FormatExitToken(delta domain.Coord) string {
	return ExitPrefix + formatAxis("q", delta.Q) + "," + formatAxis("r", delta.R)
}

func formatAxis(axis string, v int) string {
	if v > 0 {
		return fmt.Sprintf("%s+%d", axis, v)
	}
	return fmt.Sprintf("%s%d", axis, v)
}

// HasBackReference проверяет, содержит ли список connections exit-токен,
// указывающий в направлении delta. Сравнение семантическое (по разобранной
// дельте), а не текстовое: "r0" и "r+0" - один и тот же токен.
func HasBackReference(connections []string, delta domain.Coord) bool {
	for _, conn := range connections {
		if !IsExitToken(conn) {
			continue
		}
		d, err := ParseExitToken(conn)
		if err != nil {
			continue
		}
		if d == delta {
			return true
		}
	}
	return false
}
