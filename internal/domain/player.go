package domain

// PlayerState - единственная строка таблицы player (player_id=1).
// Почти каждое действие читает и переписывает ее. Транзакционной изоляции
// сверх одного UPDATE нет: сессия однопользовательская.
type PlayerState struct {
	PlayerID     int64
	Q            int
	R            int
	LocationName string
	PlaceName    string // пустая строка = не внутри сайта (NULL в БД)

	Health    int
	Attack    int
	Defense   int
	Agility   int
	Money     int
	Energy    int
	Hunger    int
	Thirst    int
	Alignment int // 0=Evil, 100=Very Good
	Inventory string

	// Игровое время. Каждое действие стоит 1 час, отдых - 8 часов.
	TimeYear  int
	TimeMonth int
	TimeDay   int
	TimeHour  int

	// NPCTeam - id завербованных NPC (до 4).
	NPCTeam []int64
	// CurrentNPCID - NPC, с которым идет разговор (0 = ни с кем).
	// Диалоговые действия (квесты, слухи, торговля) доступны только при нем.
	CurrentNPCID int64
}

// Coord возвращает текущие координаты чанка игрока.
func (p *PlayerState) Coord() Coord {
	return Coord{Q: p.Q, R: p.R}
}

// InsideSite сообщает, находится ли игрок внутри сайта.
func (p *PlayerState) InsideSite() bool {
	return p.PlaceName != ""
}

// InTeam проверяет, есть ли NPC в команде игрока.
func (p *PlayerState) InTeam(npcID int64) bool {
	for _, id := range p.NPCTeam {
		if id == npcID {
			return true
		}
	}
	return false
}

// DefaultPlayer - состояние нового игрока: деревня в начале координат.
func DefaultPlayer() *PlayerState {
	return &PlayerState{
		PlayerID:     1,
		Q:            0,
		R:            0,
		LocationName: "village",
		Health:       100,
		Attack:       5,
		Defense:      5,
		Agility:      5,
		Money:        50,
		Energy:       100,
		Hunger:       100,
		Thirst:       100,
		Alignment:    50,
		Inventory:    "Nothing",
		TimeYear:     1,
		TimeMonth:    1,
		TimeDay:      1,
		TimeHour:     8,
	}
}

// StatDelta - структурированные изменения характеристик, которые парсятся
// из ответа нарративного вызова. При нераспознанном формате применяется
// нулевая дельта, а текст все равно показывается игроку.
type StatDelta struct {
	Money     int
	Energy    int
	Hunger    int
	Thirst    int
	Alignment int
}

// IsZero сообщает, что дельта ничего не меняет.
func (d StatDelta) IsZero() bool {
	return d == StatDelta{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply накладывает дельту на характеристики с ограничением диапазонов:
// деньги не уходят в минус, потребности и мировоззрение живут в 0..100.
func (p *PlayerState) Apply(d StatDelta) {
	p.Money = p.Money + d.Money
	if p.Money < 0 {
		p.Money = 0
	}
	p.Energy = clamp(p.Energy+d.Energy, 0, 100)
	p.Hunger = clamp(p.Hunger+d.Hunger, 0, 100)
	p.Thirst = clamp(p.Thirst+d.Thirst, 0, 100)
	p.Alignment = clamp(p.Alignment+d.Alignment, 0, 100)
}

// AdvanceTime прибавляет часы с переносом дней, месяцев и лет.
// Календарь упрощенный: 30-дневные месяцы, 12 месяцев в году.
func (p *PlayerState) AdvanceTime(hours int) {
	p.TimeHour += hours
	for p.TimeHour >= 24 {
		p.TimeHour -= 24
		p.TimeDay++
		if p.TimeDay > 30 {
			p.TimeDay = 1
			p.TimeMonth++
			if p.TimeMonth > 12 {
				p.TimeMonth = 1
				p.TimeYear++
			}
		}
	}
}
