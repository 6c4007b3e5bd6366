package engine

import "io"

// WorldStats - сводка для debug-эндпоинтов.
type WorldStats struct {
	Chunks   int    `json:"chunks"`
	Q        int    `json:"q"`
	R        int    `json:"r"`
	Location string `json:"location"`
}

// WorldStats возвращает размер мира и позицию игрока.
func (s *GameService) WorldStats() (*WorldStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.GetPlayer()
	if err != nil {
		return nil, err
	}
	n, err := s.store.ChunkCount()
	if err != nil {
		return nil, err
	}
	return &WorldStats{Chunks: n, Q: p.Q, R: p.R, Location: p.LocationName}, nil
}

// ExportWorld пишет gzip-снимок всех чанков мира.
func (s *GameService) ExportWorld(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ExportWorld(w)
}
