package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/engine/handlers"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// HandleTalk начинает разговор с NPC (по имени) или продолжает идущий
// (свободной репликой). Пока разговор идет, весь свободный текст игрока
// маршрутизируется сюда.
func HandleTalk(ctx handlers.Context, p api.TalkPayload) (handlers.Result, error) {
	if p.Name != "" {
		rec, err := ctx.NPCs.Find(ctx.Player, p.Name)
		if err != nil {
			return handlers.EmptyResult(), err
		}
		if rec == nil {
			return handlers.Result{
				Msg:     fmt.Sprintf("There is no one called %s here.", p.Name),
				MsgType: "ERROR",
			}, nil
		}

		if err := ctx.Persist.SetEngagedNPC(rec.ID); err != nil {
			return handlers.EmptyResult(), err
		}
		ctx.Player.CurrentNPCID = rec.ID

		reply, err := ctx.NPCs.Talk(ctx.Ctx, ctx.Player, rec.ID, "Hello!")
		if err != nil {
			return handlers.EmptyResult(), err
		}
		return handlers.Result{
			Msg:     fmt.Sprintf("%s: %s", rec.Name, reply),
			MsgType: "SPEECH",
		}, nil
	}

	if ctx.Player.CurrentNPCID == 0 {
		return handlers.Result{Msg: "You are not talking to anyone.", MsgType: "ERROR"}, nil
	}
	reply, err := ctx.NPCs.Talk(ctx.Ctx, ctx.Player, ctx.Player.CurrentNPCID, p.Text)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Msg: reply, MsgType: "SPEECH"}, nil
}

// HandleEndTalk завершает разговор.
func HandleEndTalk(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Player.CurrentNPCID == 0 {
		return handlers.Result{Msg: "You are not talking to anyone.", MsgType: "INFO"}, nil
	}
	if err := ctx.Persist.SetEngagedNPC(0); err != nil {
		return handlers.EmptyResult(), err
	}
	ctx.Player.CurrentNPCID = 0
	return handlers.Result{Msg: "You end the conversation.", MsgType: "INFO"}, nil
}

// HandleAskQuests - вопрос о заданиях. Доступен только в разговоре.
func HandleAskQuests(ctx handlers.Context) (handlers.Result, error) {
	return askEngaged(ctx, ctx.NPCs.AskQuests)
}

// HandleAskRumors - вопрос о слухах. Доступен только в разговоре.
func HandleAskRumors(ctx handlers.Context) (handlers.Result, error) {
	return askEngaged(ctx, ctx.NPCs.AskRumors)
}

// HandleTrade - попытка поторговать с собеседником.
func HandleTrade(ctx handlers.Context) (handlers.Result, error) {
	return askEngaged(ctx, ctx.NPCs.Trade)
}

func askEngaged(ctx handlers.Context, ask func(c context.Context, p *domain.PlayerState, npcID int64) (string, error)) (handlers.Result, error) {
	if ctx.Player.CurrentNPCID == 0 {
		return handlers.Result{Msg: "You are not talking to anyone.", MsgType: "ERROR"}, nil
	}
	reply, err := ask(ctx.Ctx, ctx.Player, ctx.Player.CurrentNPCID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{Msg: reply, MsgType: "SPEECH"}, nil
}

// HandleRecruit зовет NPC в отряд.
func HandleRecruit(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	rec, err := ctx.NPCs.Recruit(ctx.Player, p.Name)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%s joins your team.", rec.Name),
		MsgType: "INFO",
	}, nil
}

// HandleDismiss отпускает члена отряда; тот остается в текущей локации.
func HandleDismiss(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	team, err := ctx.NPCs.Team(ctx.Player)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	for _, member := range team {
		if strings.EqualFold(member.Name, p.Name) {
			rec, err := ctx.NPCs.Dismiss(ctx.Player, member.ID)
			if err != nil {
				return handlers.EmptyResult(), err
			}
			if ctx.Player.CurrentNPCID == rec.ID {
				if err := ctx.Persist.SetEngagedNPC(0); err != nil {
					return handlers.EmptyResult(), err
				}
				ctx.Player.CurrentNPCID = 0
			}
			return handlers.Result{
				Msg:     fmt.Sprintf("%s leaves your team and stays in %s.", rec.Name, ctx.Player.LocationName),
				MsgType: "INFO",
			}, nil
		}
	}
	return handlers.EmptyResult(), fmt.Errorf("%w: %q", domain.ErrNotInTeam, p.Name)
}
