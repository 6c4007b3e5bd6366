package world

import (
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
)

// LocalMoves возвращает имена локаций текущего чанка, в которые можно
// перейти из current. Скрытые (visible=false) локации не предлагаются,
// exit-токены сюда не входят - у них свой канал (Exits).
func LocalMoves(doc *domain.ChunkDocument, current string) []string {
	loc, ok := doc.Locations[current]
	if !ok {
		return nil
	}
	var moves []string
	for _, conn := range loc.Connections {
		if systems.IsExitToken(conn) {
			continue
		}
		target, ok := doc.Locations[conn]
		if !ok || !target.Visible {
			continue
		}
		moves = append(moves, conn)
	}
	return moves
}

// Exits возвращает exit-токены текущей локации. По конвенции генерации
// токен один, но читатель на это не полагается.
func Exits(doc *domain.ChunkDocument, current string) []string {
	loc, ok := doc.Locations[current]
	if !ok {
		return nil
	}
	var exits []string
	for _, conn := range loc.Connections {
		if systems.IsExitToken(conn) {
			exits = append(exits, conn)
		}
	}
	return exits
}

// CheckLocalMove проверяет допустимость перехода current -> target
// внутри одного чанка. Переход в скрытую или несвязанную локацию -
// ErrInvalidMove, состояние при этом не меняется.
func CheckLocalMove(doc *domain.ChunkDocument, current, target string) error {
	for _, m := range LocalMoves(doc, current) {
		if m == target {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidMove, current, target)
}
