package actions

import (
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
	"github.com/RoboSupreme/my-hex-game/internal/world"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// HandleMove - переход в соседнюю локацию того же чанка.
func HandleMove(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	if err := world.CheckLocalMove(ctx.Chunk, ctx.Player.LocationName, p.Name); err != nil {
		return handlers.EmptyResult(), err
	}

	if err := ctx.Persist.SetPlayerLocation(p.Name); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Player.LocationName = p.Name
	ctx.Player.PlaceName = ""

	// Шанс встретить кого-то в новой локации.
	if err := ctx.NPCs.EnsurePresence(ctx.Ctx, ctx.Coord, p.Name); err != nil {
		return handlers.EmptyResult(), err
	}

	desc := ctx.Chunk.Locations[p.Name].Description
	return handlers.Result{
		Msg:     fmt.Sprintf("You travel to %s. %s", p.Name, desc),
		MsgType: "INFO",
	}, nil
}
