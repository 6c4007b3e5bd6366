package lore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/RoboSupreme/my-hex-game/internal/ai"
	"github.com/RoboSupreme/my-hex-game/internal/infrastructure/storage"
	"github.com/RoboSupreme/my-hex-game/pkg/logger"
)

// Размер фрагмента при нарезке лора. Нарезка построчная: строка
// не рвется посередине, даже если фрагмент выйдет длиннее.
const chunkSize = 400

// Index - векторный индекс знаний о мире. Фрагменты лора хранятся в
// SQLite вместе с эмбеддингами, поиск - косинусная близость в памяти:
// корпус маленький (десятки фрагментов), внешний векторный стор не нужен.
type Index struct {
	store      *storage.Store
	embed      ai.Embedder
	collection string
	log        *logrus.Entry
}

func NewIndex(store *storage.Store, embed ai.Embedder, collection string) *Index {
	return &Index{
		store:      store,
		embed:      embed,
		collection: collection,
		log:        logger.WithComponent("lore"),
	}
}

// Seed нарезает текст на фрагменты, считает эмбеддинги и складывает их
// в коллекцию. Повторный Seed того же документа перезаписывает
// фрагменты по doc_id, а не дублирует их.
func (i *Index) Seed(ctx context.Context, title, text string) (int, error) {
	chunks := splitText(text, chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := i.embed.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embed lore: %w", err)
	}

	for n, content := range chunks {
		rec := storage.LoreChunk{
			DocID:     fmt.Sprintf("%s_chunk%d", title, n),
			Title:     title,
			Content:   content,
			Embedding: vectors[n],
		}
		if err := i.store.InsertLoreChunk(i.collection, rec); err != nil {
			return n, fmt.Errorf("store lore chunk %d: %w", n, err)
		}
	}
	i.log.WithFields(logrus.Fields{"title": title, "chunks": len(chunks)}).
		Info("Лор проиндексирован")
	return len(chunks), nil
}

// Query возвращает до k наиболее близких фрагментов лора. Пустой индекс -
// пустой результат, не ошибка: игра работает и без загруженного лора.
func (i *Index) Query(ctx context.Context, question string, k int) ([]string, error) {
	stored, err := i.store.LoreChunks(i.collection)
	if err != nil {
		return nil, fmt.Errorf("load lore: %w", err)
	}
	if len(stored) == 0 || k <= 0 {
		return nil, nil
	}

	vectors, err := i.embed.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	q := vectors[0]

	sort.SliceStable(stored, func(a, b int) bool {
		return cosine(q, stored[a].Embedding) > cosine(q, stored[b].Embedding)
	})

	if k > len(stored) {
		k = len(stored)
	}
	out := make([]string, 0, k)
	for _, c := range stored[:k] {
		out = append(out, c.Content)
	}
	return out, nil
}

// splitText режет текст на фрагменты не короче строки и около maxLen
// символов каждый.
func splitText(text string, maxLen int) []string {
	var (
		chunks []string
		buf    strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			chunks = append(chunks, s)
		}
		buf.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if buf.Len() > 0 && buf.Len()+len(line)+1 > maxLen {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
	}
	flush()
	return chunks
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
