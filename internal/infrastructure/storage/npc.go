package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// CreateNPC заводит нового NPC. Текущие координаты совпадают с домашними.
func (s *Store) CreateNPC(n *domain.NPCRecord) (int64, error) {
	memJSON, err := json.Marshal(n.Memory)
	if err != nil {
		return 0, err
	}
	if n.Status == "" {
		n.Status = domain.NPCStatusActive
	}
	if n.NPCType == "" {
		n.NPCType = "wanderer"
	}
	res, err := s.db.Exec(`
		INSERT INTO npc
			(name, personality, memory, home_q, home_r, current_q, current_r,
			 location_name, site_name, status, npc_type, last_interaction)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		n.Name, n.Personality, string(memJSON),
		n.HomeQ, n.HomeR, n.CurrentQ, n.CurrentR,
		nullable(n.LocationName), nullable(n.SiteName),
		n.Status, n.NPCType, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("create npc %q: %w", n.Name, err)
	}
	return res.LastInsertId()
}

// GetNPC возвращает NPC по id (nil, если такого нет).
func (s *Store) GetNPC(id int64) (*domain.NPCRecord, error) {
	row := s.db.QueryRow(selectNPC+" WHERE npc_id=?", id)
	n, err := scanNPC(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// GetNPCByName ищет NPC по имени в конкретной точке мира, чтобы
// разговор шел именно с тем, кто стоит рядом с игроком.
func (s *Store) GetNPCByName(name string, coord domain.Coord, locationName string) (*domain.NPCRecord, error) {
	row := s.db.QueryRow(
		selectNPC+" WHERE name=? AND current_q=? AND current_r=? AND location_name=?",
		name, coord.Q, coord.R, locationName,
	)
	n, err := scanNPC(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// NPCsAt возвращает всех неотпущенных NPC в данной локации,
// упорядоченных по id.
func (s *Store) NPCsAt(coord domain.Coord, locationName string) ([]*domain.NPCRecord, error) {
	rows, err := s.db.Query(
		selectNPC+` WHERE current_q=? AND current_r=? AND location_name=? AND status<>?
		 ORDER BY npc_id`,
		coord.Q, coord.R, locationName, domain.NPCStatusDismissed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.NPCRecord
	for rows.Next() {
		n, err := scanNPC(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// SetNPCStatus меняет статус (active / in_team / dismissed).
func (s *Store) SetNPCStatus(id int64, status string) error {
	_, err := s.db.Exec("UPDATE npc SET status=? WHERE npc_id=?", status, id)
	return err
}

// UpdateNPCLocation перемещает NPC и обновляет отметку взаимодействия.
func (s *Store) UpdateNPCLocation(id int64, coord domain.Coord, locationName, siteName string) error {
	_, err := s.db.Exec(`
		UPDATE npc
		SET current_q=?, current_r=?, location_name=?, site_name=?, last_interaction=?
		WHERE npc_id=?`,
		coord.Q, coord.R, nullable(locationName), nullable(siteName),
		time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

// AppendNPCMemory дописывает запись в память NPC (читаем список,
// добавляем, пишем обратно - памяти немного, это дешево).
func (s *Store) AppendNPCMemory(id int64, entry domain.NPCMemoryEntry) error {
	var memJSON sql.NullString
	err := s.db.QueryRow("SELECT memory FROM npc WHERE npc_id=?", id).Scan(&memJSON)
	if err != nil {
		return fmt.Errorf("npc %d memory: %w", id, err)
	}

	var memory []domain.NPCMemoryEntry
	if memJSON.Valid && memJSON.String != "" {
		// Нечитаемую память выбрасываем, а не падаем.
		_ = json.Unmarshal([]byte(memJSON.String), &memory)
	}
	memory = append(memory, entry)

	blob, err := json.Marshal(memory)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"UPDATE npc SET memory=?, last_interaction=? WHERE npc_id=?",
		string(blob), time.Now().UTC().Format(time.RFC3339), id,
	)
	return err
}

// RecordConversation сохраняет обе реплики диалога в историю разговоров.
// Игрок один, поэтому player_id всегда 1.
func (s *Store) RecordConversation(npcID int64, playerLine, npcLine string) error {
	_, err := s.db.Exec(
		"INSERT INTO conversation_history (npc_id, player_id, dialogue) VALUES (?,1,?)",
		npcID, fmt.Sprintf("player: %s\nnpc: %s", playerLine, npcLine),
	)
	return err
}

const selectNPC = `
	SELECT npc_id, name, personality, memory, home_q, home_r,
	       current_q, current_r, location_name, site_name,
	       status, npc_type, last_interaction
	FROM npc`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNPC(row rowScanner) (*domain.NPCRecord, error) {
	var (
		n        domain.NPCRecord
		memJSON  sql.NullString
		locName  sql.NullString
		siteName sql.NullString
		lastSeen sql.NullString
	)
	err := row.Scan(
		&n.ID, &n.Name, &n.Personality, &memJSON, &n.HomeQ, &n.HomeR,
		&n.CurrentQ, &n.CurrentR, &locName, &siteName,
		&n.Status, &n.NPCType, &lastSeen,
	)
	if err != nil {
		return nil, err
	}

	n.LocationName = locName.String
	n.SiteName = siteName.String
	if memJSON.Valid && memJSON.String != "" {
		_ = json.Unmarshal([]byte(memJSON.String), &n.Memory)
	}
	if lastSeen.Valid {
		if t, err := time.Parse(time.RFC3339, lastSeen.String); err == nil {
			n.LastInteraction = t
		}
	}
	return &n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
