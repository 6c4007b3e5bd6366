package domain

import "fmt"

// Coord - осевые (axial) координаты гексагонального чанка.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin - стартовый чанк. В нем обязана существовать локация "village".
var Origin = Coord{Q: 0, R: 0}

// Directions - шесть допустимых направлений соседства на гексагональной сетке.
// Любой exit-токен обязан указывать ровно на одно из них.
var Directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Add возвращает координату, смещенную на delta.
func (c Coord) Add(delta Coord) Coord {
	return Coord{Q: c.Q + delta.Q, R: c.R + delta.R}
}

// Neg возвращает противоположное направление (для поиска обратной ссылки).
func (c Coord) Neg() Coord {
	return Coord{Q: -c.Q, R: -c.R}
}

// IsUnitDirection проверяет, что дельта - одно из шести направлений соседства.
func (c Coord) IsUnitDirection() bool {
	for _, d := range Directions {
		if c == d {
			return true
		}
	}
	return false
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}
