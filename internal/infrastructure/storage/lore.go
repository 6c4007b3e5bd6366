package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// LoreChunk - фрагмент лора вместе с его эмбеддингом.
// Векторного хранилища в проекте нет: эмбеддинги лежат BLOB-ами
// в той же SQLite, ранжирование косинусной близостью делается в Go.
type LoreChunk struct {
	DocID     string
	Title     string
	Content   string
	Embedding []float32
}

// InsertLoreChunk сохраняет фрагмент лора. Повтор doc_id перезаписывает
// старый фрагмент (повторный посев коллекции).
func (s *Store) InsertLoreChunk(collection string, c LoreChunk) error {
	_, err := s.db.Exec(`
		INSERT INTO lore_chunks (collection, doc_id, title, content, embedding)
		VALUES (?,?,?,?,?)
		ON CONFLICT(doc_id) DO UPDATE SET
			collection=excluded.collection,
			title=excluded.title,
			content=excluded.content,
			embedding=excluded.embedding`,
		collection, c.DocID, c.Title, c.Content, encodeVector(c.Embedding),
	)
	if err != nil {
		return fmt.Errorf("insert lore %q: %w", c.DocID, err)
	}
	return nil
}

// LoreChunks возвращает все фрагменты коллекции.
// Коллекции маленькие (десятки записей), полный проход дешев.
func (s *Store) LoreChunks(collection string) ([]LoreChunk, error) {
	rows, err := s.db.Query(
		"SELECT doc_id, title, content, embedding FROM lore_chunks WHERE collection=? ORDER BY id",
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LoreChunk
	for rows.Next() {
		var (
			c    LoreChunk
			blob []byte
		)
		if err := rows.Scan(&c.DocID, &c.Title, &c.Content, &blob); err != nil {
			return nil, err
		}
		c.Embedding, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("lore %q: %w", c.DocID, err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// DeleteLoreCollection удаляет коллекцию целиком (пересев лора).
func (s *Store) DeleteLoreCollection(collection string) error {
	_, err := s.db.Exec("DELETE FROM lore_chunks WHERE collection=?", collection)
	return err
}

// encodeVector упаковывает вектор в little-endian float32 BLOB.
func encodeVector(v []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(v)*4))
	for _, f := range v {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v, nil
}
