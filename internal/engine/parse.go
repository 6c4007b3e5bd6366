package engine

import (
	"strings"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
	"github.com/RoboSupreme/my-hex-game/pkg/api"
)

// parseAction разбирает текстовую команду игрока во внутреннюю команду.
// Команды без цели матчатся целиком, команды с целью - по префиксу.
// Нераспознанный текст маршрутизируется по контексту: в разговоре это
// реплика NPC, внутри сайта - свободное нарративное действие.
func parseAction(p *domain.PlayerState, text string) domain.InternalCommand {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	switch lower {
	case "rest":
		return command(domain.ActionRest, nil)
	case "inventory", "check inventory":
		return command(domain.ActionInventory, nil)
	case "exit", "exit chunk":
		return command(domain.ActionExit, api.ExitPayload{})
	case "leave", "leave site", "go outside":
		return command(domain.ActionLeaveSite, nil)
	case "search location", "search area", "search around":
		return command(domain.ActionSearchLocation, nil)
	case "search place", "search site":
		return command(domain.ActionSearchSite, nil)
	case "search":
		if p.InsideSite() {
			return command(domain.ActionSearchSite, nil)
		}
		return command(domain.ActionSearchLocation, nil)
	case "ask about quests":
		return command(domain.ActionAskQuests, nil)
	case "ask about rumors":
		return command(domain.ActionAskRumors, nil)
	case "trade":
		return command(domain.ActionTrade, nil)
	case "end talk", "end conversation", "goodbye":
		return command(domain.ActionEndTalk, nil)
	}

	if systems.IsExitToken(lower) {
		return command(domain.ActionExit, api.ExitPayload{Token: lower})
	}

	for _, prefix := range []string{"go to ", "go "} {
		if target, ok := cutPrefixFold(text, prefix); ok {
			return command(domain.ActionMove, api.TargetPayload{Name: target})
		}
	}
	if target, ok := cutPrefixFold(text, "enter "); ok {
		return command(domain.ActionEnterSite, api.TargetPayload{Name: target})
	}
	for _, prefix := range []string{"talk to ", "talk "} {
		if target, ok := cutPrefixFold(text, prefix); ok {
			return command(domain.ActionTalk, api.TalkPayload{Name: target})
		}
	}
	if target, ok := cutPrefixFold(text, "recruit "); ok {
		return command(domain.ActionRecruit, api.TargetPayload{Name: target})
	}
	if target, ok := cutPrefixFold(text, "dismiss "); ok {
		return command(domain.ActionDismiss, api.TargetPayload{Name: target})
	}

	if p.CurrentNPCID != 0 {
		return command(domain.ActionTalk, api.TalkPayload{Text: text})
	}
	if p.InsideSite() {
		return command(domain.ActionSiteCustom, api.FreeTextPayload{Text: text})
	}
	return domain.InternalCommand{Action: domain.ActionUnknown}
}

func command(a domain.ActionType, payload any) domain.InternalCommand {
	cmd := domain.InternalCommand{Action: a}
	if payload != nil {
		cmd.Payload = api.MarshalPayload(payload)
	}
	return cmd
}

// cutPrefixFold отрезает префикс без учета регистра, сохраняя регистр
// остатка (имена NPC и сайтов хранятся в исходном регистре).
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	rest := strings.TrimSpace(s[len(prefix):])
	if rest == "" {
		return "", false
	}
	return rest, true
}
