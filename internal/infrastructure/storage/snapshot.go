package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// WorldSnapshot - экспортный слепок сгенерированного мира.
// Используется инструментом reset для бэкапа перед очисткой.
type WorldSnapshot struct {
	ExportedAt string          `json:"exported_at"`
	Chunks     []SnapshotChunk `json:"chunks"`
}

type SnapshotChunk struct {
	Q    int             `json:"q"`
	R    int             `json:"r"`
	Data json.RawMessage `json:"data"`
}

// ExportWorld пишет gzip-сжатый JSON со всеми чанками в w.
func (s *Store) ExportWorld(w io.Writer) error {
	rows, err := s.db.Query("SELECT q, r, data_json FROM chunks ORDER BY chunk_id")
	if err != nil {
		return err
	}
	defer rows.Close()

	snap := WorldSnapshot{ExportedAt: time.Now().UTC().Format(time.RFC3339)}
	for rows.Next() {
		var (
			c    domain.Coord
			blob string
		)
		if err := rows.Scan(&c.Q, &c.R, &blob); err != nil {
			return err
		}
		snap.Chunks = append(snap.Chunks, SnapshotChunk{
			Q: c.Q, R: c.R, Data: json.RawMessage(blob),
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(snap); err != nil {
		_ = gz.Close()
		return fmt.Errorf("export world: %w", err)
	}
	return gz.Close()
}

// ReadWorldSnapshot читает слепок обратно (для инспекции бэкапов).
func ReadWorldSnapshot(r io.Reader) (*WorldSnapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var snap WorldSnapshot
	if err := json.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("read world snapshot: %w", err)
	}
	return &snap, nil
}

// BackupFile сжимает файл базы в dst (обычный gzip-файл рядом с базой).
func BackupFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		_ = gz.Close()
		return fmt.Errorf("backup %s: %w", srcPath, err)
	}
	return gz.Close()
}
