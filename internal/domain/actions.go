package domain

import "encoding/json"

// ActionType - внутренний тип действия игрока.
// Текстовые команды ("enter inn", "exit:q+1,r0"...) разбираются движком
// в одну из этих констант плюс payload.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionRest
	ActionInventory
	ActionMove           // переход в локацию того же чанка
	ActionExit           // переход в соседний чанк по exit-токену
	ActionEnterSite      // вход в открытый сайт
	ActionLeaveSite      // выход из сайта
	ActionSearchLocation // поиск нового сайта в локации
	ActionSearchSite     // обыск внутри сайта (поиск entities)
	ActionSiteCustom     // свободное действие внутри сайта ("buy bread"...)
	ActionTalk           // начать/продолжить разговор с NPC
	ActionRecruit
	ActionDismiss
	ActionAskQuests
	ActionAskRumors
	ActionTrade
	ActionEndTalk
)

var actionNames = map[ActionType]string{
	ActionRest:           "REST",
	ActionInventory:      "INVENTORY",
	ActionMove:           "MOVE",
	ActionExit:           "EXIT",
	ActionEnterSite:      "ENTER_SITE",
	ActionLeaveSite:      "LEAVE_SITE",
	ActionSearchLocation: "SEARCH_LOCATION",
	ActionSearchSite:     "SEARCH_SITE",
	ActionSiteCustom:     "SITE_CUSTOM",
	ActionTalk:           "TALK",
	ActionRecruit:        "RECRUIT",
	ActionDismiss:        "DISMISS",
	ActionAskQuests:      "ASK_QUESTS",
	ActionAskRumors:      "ASK_RUMORS",
	ActionTrade:          "TRADE",
	ActionEndTalk:        "END_TALK",
}

func (a ActionType) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "UNKNOWN"
}

// InternalCommand - разобранная команда, готовая к выполнению хендлером.
type InternalCommand struct {
	Action  ActionType
	Payload json.RawMessage
}
