package actions

import (
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
	"github.com/RoboSupreme/my-hex-game/internal/world"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// HandleExit - переход в соседний чанк по exit-токену. Пустой токен в
// payload означает "единственный выход текущей локации".
func HandleExit(ctx handlers.Context, p api.ExitPayload) (handlers.Result, error) {
	token := p.Token
	if token == "" {
		exits := world.Exits(ctx.Chunk, ctx.Player.LocationName)
		if len(exits) == 0 {
			return handlers.EmptyResult(),
				fmt.Errorf("%w: no exit from %s", domain.ErrInvalidMove, ctx.Player.LocationName)
		}
		token = exits[0]
	}

	dest, arrival, err := ctx.Chunks.ResolveExit(ctx.Ctx, ctx.Coord, token)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	if err := ctx.Persist.SetPlayerChunk(dest); err != nil {
		return handlers.EmptyResult(), err
	}
	if err := ctx.Persist.SetPlayerLocation(arrival); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Player.Q, ctx.Player.R = dest.Q, dest.R
	ctx.Player.LocationName = arrival
	ctx.Player.PlaceName = ""

	if err := ctx.NPCs.EnsurePresence(ctx.Ctx, dest, arrival); err != nil {
		return handlers.EmptyResult(), err
	}

	destDoc, err := ctx.Chunks.GetOrCreate(ctx.Ctx, dest)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{
		Msg: fmt.Sprintf("You cross into new lands and arrive at %s. %s",
			arrival, destDoc.Locations[arrival].Description),
		MsgType: "INFO",
	}, nil
}
