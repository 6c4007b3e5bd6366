package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// GetPlayer читает единственную строку игрока, создавая ее с дефолтами
// при первом обращении. Нормальная работа никогда не возвращает "нет игрока".
func (s *Store) GetPlayer() (*domain.PlayerState, error) {
	p, err := s.scanPlayer()
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	def := domain.DefaultPlayer()
	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO player
			(player_id, health, inventory, money, hunger, thirst, energy, alignment,
			 attack, defense, agility, q, r, location_name, place_name,
			 time_year, time_month, time_day, time_hour, npc_team, current_npc_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,NULL,?,?,?,?, '[]', NULL)`,
		def.PlayerID, def.Health, def.Inventory, def.Money, def.Hunger, def.Thirst,
		def.Energy, def.Alignment, def.Attack, def.Defense, def.Agility,
		def.Q, def.R, def.LocationName,
		def.TimeYear, def.TimeMonth, def.TimeDay, def.TimeHour,
	)
	if err != nil {
		return nil, fmt.Errorf("create default player: %w", err)
	}
	return s.scanPlayer()
}

func (s *Store) scanPlayer() (*domain.PlayerState, error) {
	var (
		p          domain.PlayerState
		place      sql.NullString
		engagedNPC sql.NullInt64
		teamJSON   string
	)
	err := s.db.QueryRow(`
		SELECT player_id, health, inventory, money, hunger, thirst, energy, alignment,
		       attack, defense, agility, q, r, location_name, place_name,
		       time_year, time_month, time_day, time_hour, npc_team, current_npc_id
		FROM player WHERE player_id=1`).Scan(
		&p.PlayerID, &p.Health, &p.Inventory, &p.Money, &p.Hunger, &p.Thirst,
		&p.Energy, &p.Alignment, &p.Attack, &p.Defense, &p.Agility,
		&p.Q, &p.R, &p.LocationName, &place,
		&p.TimeYear, &p.TimeMonth, &p.TimeDay, &p.TimeHour, &teamJSON, &engagedNPC,
	)
	if err != nil {
		return nil, err
	}

	p.PlaceName = place.String
	if engagedNPC.Valid {
		p.CurrentNPCID = engagedNPC.Int64
	}
	if teamJSON != "" {
		if err := json.Unmarshal([]byte(teamJSON), &p.NPCTeam); err != nil {
			// Битый JSON команды не должен ломать сессию - начинаем с пустой.
			p.NPCTeam = nil
		}
	}
	return &p, nil
}

// SetPlayerChunk перемещает игрока в другой чанк.
func (s *Store) SetPlayerChunk(coord domain.Coord) error {
	_, err := s.db.Exec("UPDATE player SET q=?, r=? WHERE player_id=1", coord.Q, coord.R)
	return err
}

// SetPlayerLocation ставит локацию и сбрасывает вложенный сайт:
// любое перемещение между локациями выводит игрока наружу.
func (s *Store) SetPlayerLocation(locationName string) error {
	_, err := s.db.Exec(
		"UPDATE player SET location_name=?, place_name=NULL WHERE player_id=1",
		locationName,
	)
	return err
}

// SetPlayerPlace ставит (или пустой строкой сбрасывает) текущий сайт.
func (s *Store) SetPlayerPlace(placeName string) error {
	if placeName == "" {
		_, err := s.db.Exec("UPDATE player SET place_name=NULL WHERE player_id=1")
		return err
	}
	_, err := s.db.Exec("UPDATE player SET place_name=? WHERE player_id=1", placeName)
	return err
}

// SavePlayerStats переписывает числовые характеристики и игровое время.
func (s *Store) SavePlayerStats(p *domain.PlayerState) error {
	_, err := s.db.Exec(`
		UPDATE player
		SET health=?, money=?, hunger=?, thirst=?, energy=?, alignment=?,
		    attack=?, defense=?, agility=?,
		    time_year=?, time_month=?, time_day=?, time_hour=?
		WHERE player_id=1`,
		p.Health, p.Money, p.Hunger, p.Thirst, p.Energy, p.Alignment,
		p.Attack, p.Defense, p.Agility,
		p.TimeYear, p.TimeMonth, p.TimeDay, p.TimeHour,
	)
	return err
}

// SavePlayerTeam переписывает состав команды NPC.
func (s *Store) SavePlayerTeam(team []int64) error {
	if team == nil {
		team = []int64{}
	}
	blob, err := json.Marshal(team)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE player SET npc_team=? WHERE player_id=1", string(blob))
	return err
}

// SetEngagedNPC запоминает собеседника игрока (0 = разговор окончен).
func (s *Store) SetEngagedNPC(npcID int64) error {
	if npcID == 0 {
		_, err := s.db.Exec("UPDATE player SET current_npc_id=NULL WHERE player_id=1")
		return err
	}
	_, err := s.db.Exec("UPDATE player SET current_npc_id=? WHERE player_id=1", npcID)
	return err
}
