package domain

import "time"

// Статусы NPC.
const (
	NPCStatusActive    = "active"    // живет в мире, можно вербовать
	NPCStatusInTeam    = "in_team"   // состоит в команде игрока
	NPCStatusDismissed = "dismissed" // отпущен и больше не показывается
)

// NPCMemoryEntry - одна запись персистентной памяти NPC.
// Память хранится в БД как JSON-список таких записей.
type NPCMemoryEntry struct {
	Timestamp   string `json:"timestamp"`
	PlayerInput string `json:"player_input,omitempty"`
	NPCResponse string `json:"npc_response,omitempty"`
	Summary     string `json:"summary"`
}

// NPCRecord - строка таблицы npc. С чанками связана только совпадением
// координат и имени локации, внутрь документа чанка NPC не встраивается.
type NPCRecord struct {
	ID          int64
	Name        string
	Personality string
	Memory      []NPCMemoryEntry

	HomeQ int
	HomeR int

	CurrentQ     int
	CurrentR     int
	LocationName string
	SiteName     string

	Status          string
	NPCType         string
	LastInteraction time.Time
}

// At проверяет, находится ли NPC в данной точке мира.
func (n *NPCRecord) At(coord Coord, locationName string) bool {
	return n.CurrentQ == coord.Q && n.CurrentR == coord.R && n.LocationName == locationName
}

// RecentMemory возвращает до n последних записей памяти (для контекста LLM).
func (n *NPCRecord) RecentMemory(count int) []NPCMemoryEntry {
	if len(n.Memory) <= count {
		return n.Memory
	}
	return n.Memory[len(n.Memory)-count:]
}
