package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// GetChunk возвращает документ чанка по координатам.
// Второе значение false означает, что чанк еще не создавался.
func (s *Store) GetChunk(coord domain.Coord) (*domain.ChunkDocument, bool, error) {
	var blob string
	err := s.db.QueryRow(
		"SELECT data_json FROM chunks WHERE q=? AND r=?",
		coord.Q, coord.R,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get chunk %s: %w", coord, err)
	}

	var doc domain.ChunkDocument
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, false, fmt.Errorf("decode chunk %s: %w", coord, err)
	}
	return &doc, true, nil
}

// InsertChunk сохраняет только что сгенерированный документ.
// UNIQUE(q,r) гарантирует ровно один документ на координату.
func (s *Store) InsertChunk(coord domain.Coord, doc *domain.ChunkDocument) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode chunk %s: %w", coord, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO chunks (q, r, data_json) VALUES (?,?,?)",
		coord.Q, coord.R, string(blob),
	)
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", coord, err)
	}
	return nil
}

// UpdateChunk переписывает документ целиком. Частичных обновлений нет:
// вызывающий обязан работать по схеме "прочитал - изменил - записал".
func (s *Store) UpdateChunk(coord domain.Coord, doc *domain.ChunkDocument) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode chunk %s: %w", coord, err)
	}
	_, err = s.db.Exec(
		"UPDATE chunks SET data_json=? WHERE q=? AND r=?",
		string(blob), coord.Q, coord.R,
	)
	if err != nil {
		return fmt.Errorf("update chunk %s: %w", coord, err)
	}
	return nil
}

// ChunkCount возвращает число сгенерированных чанков (для статистики).
func (s *Store) ChunkCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
