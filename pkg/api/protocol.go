package api

import "encoding/json"

// --- СЕРВЕР -> КЛИЕНТ ---

// StateResponse - полный "снимок" состояния игрока и его окружения.
// Отдается по GET /api/state и рассылается по WebSocket после каждого
// примененного действия.
type StateResponse struct {
	// Player характеристики и позиция игрока.
	Player PlayerView `json:"player"`

	// Location описание текущей локации с открытыми сайтами.
	Location LocationView `json:"location"`

	// NPCs персонажи, стоящие в текущей локации (без распущенных).
	NPCs []NPCView `json:"npcs,omitempty"`

	// Team завербованные NPC.
	Team []NPCView `json:"team,omitempty"`

	// TalkingTo имя NPC, с которым идет разговор. Пустая строка - разговора нет.
	TalkingTo string `json:"talkingTo,omitempty"`
}

// PlayerView это DTO игрока.
type PlayerView struct {
	Q            int    `json:"q"`
	R            int    `json:"r"`
	LocationName string `json:"locationName"`

	// PlaceName сайт, внутри которого стоит игрок. Пустая строка - снаружи.
	PlaceName string `json:"placeName,omitempty"`

	Health    int    `json:"health"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	Agility   int    `json:"agility"`
	Money     int    `json:"money"`
	Energy    int    `json:"energy"`
	Hunger    int    `json:"hunger"`
	Thirst    int    `json:"thirst"`
	Alignment int    `json:"alignment"`
	Inventory string `json:"inventory"`

	// Time игровое время в формате "Year 1, Month 2, Day 3, 08:00".
	Time string `json:"time"`
}

// LocationView это DTO текущей локации.
type LocationView struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Moves видимые локации этого чанка, куда можно перейти.
	Moves []string `json:"moves,omitempty"`

	// Exits exit-токены, ведущие в соседние чанки.
	Exits []string `json:"exits,omitempty"`

	// Sites открытые сайты локации.
	Sites []string `json:"sites,omitempty"`

	// History последние события локации.
	History []string `json:"history,omitempty"`
}

// NPCView это DTO персонажа.
type NPCView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	NPCType string `json:"npcType"`
	Status  string `json:"status"`
}

// ActionsResponse - список текстовых действий, доступных игроку сейчас.
// Клиент показывает их как кнопки; каждое можно отправить в POST /api/action
// дословно.
type ActionsResponse struct {
	Actions []string `json:"actions"`
}

// ActionResult - исход одного примененного действия.
type ActionResult struct {
	// OK false, если действие отклонено (незнакомая команда, неверный ход).
	OK bool `json:"ok"`

	// Message текст для игрока: нарратив, ответ NPC или причина отказа.
	Message string `json:"message"`

	// MessageType подсказка клиенту для оформления: INFO, NARRATIVE,
	// SPEECH или ERROR.
	MessageType string `json:"messageType,omitempty"`

	// State снимок состояния после действия.
	State *StateResponse `json:"state,omitempty"`
}

// AskResponse - ответ духа мира на вопрос о лоре.
type AskResponse struct {
	Answer string `json:"answer"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ActionRequest - тело POST /api/action и сообщений WebSocket.
// Action - текстовая команда из ActionsResponse либо свободный текст
// (внутри сайта свободный текст отыгрывается нарративно).
type ActionRequest struct {
	Action string `json:"action"`
}

// AskRequest - тело POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// --- Payloads внутренних команд ---

// TargetPayload используется для действий с именованной целью:
// MOVE (локация), ENTER_SITE (сайт), TALK/RECRUIT (NPC по имени).
type TargetPayload struct {
	Name string `json:"name"`
}

// ExitPayload используется для EXIT. Пустой токен означает
// "единственный exit текущей локации".
type ExitPayload struct {
	Token string `json:"token,omitempty"`
}

// FreeTextPayload используется для SITE_CUSTOM и реплик в разговоре.
type FreeTextPayload struct {
	Text string `json:"text"`
}

// TalkPayload используется для TALK. Name начинает разговор с NPC,
// Text - реплика в уже идущем разговоре. Заполняется ровно одно поле.
type TalkPayload struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// MarshalPayload сериализует payload для InternalCommand.
// Ошибки маршалинга структур DTO невозможны, поэтому паника уместна.
func MarshalPayload(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
