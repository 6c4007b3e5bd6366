package world

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// ChunkStore - единственная точка доступа к чанкам мира. Гарантии:
//   - GetOrCreate для существующего чанка возвращает его дословно,
//     без повторной генерации и без "улучшений";
//   - для нового чанка результат генератора валидируется, и при любом
//     сбое молча подставляется детерминированная заглушка - наружу
//     ошибка генерации не выходит никогда.
type ChunkStore struct {
	store *storage.Store
	gen   Generator
	log   *logrus.Entry
}

func NewChunkStore(store *storage.Store, gen Generator) *ChunkStore {
	return &ChunkStore{
		store: store,
		gen:   gen,
		log:   logger.WithComponent("chunkstore"),
	}
}

// GetOrCreate возвращает чанк по координатам, создавая его при первом визите.
func (c *ChunkStore) GetOrCreate(ctx context.Context, coord domain.Coord) (*domain.ChunkDocument, error) {
	doc, ok, err := c.store.GetChunk(coord)
	if err != nil {
		return nil, fmt.Errorf("load chunk %s: %w", coord, err)
	}
	if ok {
		return doc, nil
	}

	doc = c.generate(ctx, coord)
	if err := c.store.InsertChunk(coord, doc); err != nil {
		return nil, fmt.Errorf("persist chunk %s: %w", coord, err)
	}
	c.log.WithFields(logrus.Fields{
		"coord":     coord.String(),
		"locations": len(doc.LocationNames()),
	}).Info("Создан новый чанк")
	return doc, nil
}

func (c *ChunkStore) generate(ctx context.Context, coord domain.Coord) *domain.ChunkDocument {
	doc, err := c.gen.Generate(ctx, coord)
	if err == nil {
		err = ValidateChunk(doc)
	}
	if err != nil {
		c.log.WithError(err).WithField("coord", coord.String()).
			Warn("Генерация чанка не удалась, подставляю заглушку")
		return FallbackChunk(coord)
	}

	// Стартовый чанк обязан содержать "village" - игрок рождается там.
	// Чужой документ без нее не отбрасываем, а чиним заглушкой.
	if coord == domain.Origin {
		if _, ok := doc.Locations["village"]; !ok {
			c.log.Warn("Чанк (0,0) без village, подставляю заглушку")
			return FallbackChunk(coord)
		}
	}
	return doc
}

// Update перезаписывает чанк целиком. Все мутации (открытие сайтов,
// обогащение описаний, история событий) проходят через полный документ.
func (c *ChunkStore) Update(coord domain.Coord, doc *domain.ChunkDocument) error {
	if err := c.store.UpdateChunk(coord, doc); err != nil {
		return fmt.Errorf("update chunk %s: %w", coord, err)
	}
	return nil
}
