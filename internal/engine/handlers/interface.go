package handlers

import (
	"context"
	"encoding/json"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/npc"
	"github.com/RoboSupreme/my-hex-game/internal/world"
)

// Context передает хендлеру игрока и мир вокруг него.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные);
// персистентность изменений - забота сервиса после выполнения хендлера.
type Context struct {
	Ctx context.Context

	// Player текущее состояние игрока. Мутации координат и команды хендлер
	// делает сам через Persist, мутации статов возвращает через Result.Delta.
	Player *domain.PlayerState

	// Chunk документ чанка, в котором стоит игрок, и его координаты.
	Chunk *domain.ChunkDocument
	Coord domain.Coord

	Chunks  *world.ChunkStore
	Sites   *world.SiteRegistry
	NPCs    *npc.Directory
	Persist Persister
}

// Persister - то, что хендлеру позволено менять в позиции игрока.
// Реализуется хранилищем; вынесено в интерфейс, чтобы хендлеры
// тестировались без SQLite.
type Persister interface {
	SetPlayerChunk(coord domain.Coord) error
	SetPlayerLocation(name string) error
	SetPlayerPlace(name string) error
	SetEngagedNPC(npcID int64) error
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ применяет дельту статов и НЕ пишет логи сам, он возвращает данные.
type Result struct {
	Msg     string          // Текст для игрока
	MsgType string          // INFO, NARRATIVE, SPEECH, ERROR
	Delta   domain.StatDelta // Изменение статов от нарративного действия

	// Hours - цена действия в игровых часах. 0 означает "стандартный час",
	// сервис сам подставит единицу.
	Hours int
}

// HandlerFunc - это контракт для любой команды (MOVE, ENTER_SITE, TALK...).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
