package world

import (
	"context"
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
)

// ResolveExit выполняет межчанковый переход: парсит exit-токен,
// создает при необходимости соседний чанк и выбирает локацию прибытия.
// Возвращает координаты нового чанка и имя локации в нем.
func (c *ChunkStore) ResolveExit(ctx context.Context, from domain.Coord, token string) (domain.Coord, string, error) {
	delta, err := systems.ParseExitToken(token)
	if err != nil {
		return domain.Coord{}, "", err
	}
	dest := from.Add(delta)

	doc, err := c.GetOrCreate(ctx, dest)
	if err != nil {
		return domain.Coord{}, "", err
	}

	arrival, err := SelectArrival(doc, dest, delta.Neg())
	if err != nil {
		return domain.Coord{}, "", err
	}
	return dest, arrival, nil
}

// SelectArrival выбирает локацию прибытия в чанке dest. Приоритет:
//
//  1. локация с обратной ссылкой - exit-токеном, семантически равным
//     backDelta (дельте, ведущей назад в исходный чанк);
//  2. "village", если прибыли в стартовый чанк (0,0);
//  3. первая видимая локация в порядке записи документа.
//
// Порядок 3 детерминирован, потому что ChunkDocument сохраняет порядок
// ключей исходного JSON.
func SelectArrival(doc *domain.ChunkDocument, dest domain.Coord, backDelta domain.Coord) (string, error) {
	for _, name := range doc.LocationNames() {
		if systems.HasBackReference(doc.Locations[name].Connections, backDelta) {
			return name, nil
		}
	}

	if dest == domain.Origin {
		if _, ok := doc.Locations["village"]; ok {
			return "village", nil
		}
	}

	for _, name := range doc.LocationNames() {
		if doc.Locations[name].Visible {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: chunk %s has no visible locations", domain.ErrInvalidMove, dest)
}
