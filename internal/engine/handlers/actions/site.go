package actions

import (
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// HandleEnterSite - вход в открытый сайт текущей локации.
func HandleEnterSite(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	desc, err := ctx.Sites.EnterSite(ctx.Ctx, ctx.Coord, ctx.Chunk, ctx.Player.LocationName, p.Name)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	if err := ctx.Persist.SetPlayerPlace(p.Name); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Player.PlaceName = p.Name

	return handlers.Result{
		Msg:     fmt.Sprintf("You enter %s. %s", p.Name, desc),
		MsgType: "INFO",
	}, nil
}

// HandleLeaveSite выводит игрока из сайта. Снаружи это безвредный no-op.
func HandleLeaveSite(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Player.InsideSite() {
		return handlers.Result{Msg: "You are not inside any place.", MsgType: "INFO"}, nil
	}

	left := ctx.Player.PlaceName
	if err := ctx.Persist.SetPlayerPlace(""); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Player.PlaceName = ""

	return handlers.Result{
		Msg:     fmt.Sprintf("You step out of %s back into %s.", left, ctx.Player.LocationName),
		MsgType: "INFO",
	}, nil
}

// HandleSearchLocation - поиск скрытых сайтов в локации.
func HandleSearchLocation(ctx handlers.Context) (handlers.Result, error) {
	text, err := ctx.Sites.SearchLocation(ctx.Ctx, ctx.Coord, ctx.Chunk, ctx.Player.LocationName)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Msg: text, MsgType: "NARRATIVE"}, nil
}

// HandleSearchSite - обыск внутри сайта. Требует находиться в сайте.
func HandleSearchSite(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Player.InsideSite() {
		return handlers.EmptyResult(), domain.ErrNotInsideSite
	}
	text, err := ctx.Sites.SearchSite(ctx.Ctx, ctx.Coord, ctx.Chunk, ctx.Player.LocationName, ctx.Player.PlaceName)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Msg: text, MsgType: "NARRATIVE"}, nil
}

// HandleSiteCustom - свободное действие внутри сайта ("buy bread",
// "pray at the altar"...). Исход отыгрывается нарративно, дельта статов
// парсится из ответа.
func HandleSiteCustom(ctx handlers.Context, p api.FreeTextPayload) (handlers.Result, error) {
	if !ctx.Player.InsideSite() {
		return handlers.EmptyResult(), domain.ErrNotInsideSite
	}
	text, delta, err := ctx.Sites.HandleSiteAction(ctx.Ctx, ctx.Coord, ctx.Chunk, ctx.Player, p.Text)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Msg: text, MsgType: "NARRATIVE", Delta: delta}, nil
}
