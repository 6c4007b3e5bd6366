package world

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
)

// ProcGenerator - офлайновый генератор чанков на основе сида.
// Используется, когда внешнее API недоступно (нет ключа, разработка,
// тесты): мир получается однообразнее, но полностью детерминирован -
// одинаковый сид дает одинаковую карту.
type ProcGenerator struct {
	seed int64
}

func NewProcGenerator(seed int64) *ProcGenerator {
	return &ProcGenerator{seed: seed}
}

var (
	procBiomes = []string{
		"forest", "hills", "marsh", "plains", "cliffs", "thicket",
		"ravine", "meadow", "pinewood", "lakeshore", "moor", "scrubland",
	}
	procHiddenSpots = []string{
		"old_shrine", "hollow_tree", "stone_circle", "abandoned_camp",
		"mossy_well", "burial_mound", "fox_den", "ruined_watchtower",
	}
	procOpenSpots = []string{
		"campfire_site", "trail_marker", "fallen_bridge", "berry_grove",
		"shallow_ford", "herb_patch",
	}
)

// Generate строит чанк из 3-5 локаций: цепочка соединений плюс
// случайные поперечные связи, один exit-токен и по 1-2 сайта на локацию.
func (g *ProcGenerator) Generate(_ context.Context, coord domain.Coord) (*domain.ChunkDocument, error) {
	rng := rand.New(rand.NewSource(g.chunkSeed(coord)))

	count := 3 + rng.Intn(3)
	names := g.pickNames(rng, coord, count)

	doc := &domain.ChunkDocument{}
	for i, name := range names {
		loc := &domain.LocationRecord{
			Visible:         i == 0 || rng.Float64() > 0.15,
			Description:     fmt.Sprintf("A quiet %s stretch of land at chunk(%d,%d).", name, coord.Q, coord.R),
			HistoryOfEvents: []string{},
			Sites:           map[string]*domain.SiteRecord{},
		}
		// Цепочка гарантирует связность.
		if i > 0 {
			loc.Connections = append(loc.Connections, names[i-1])
		}
		if i < len(names)-1 {
			loc.Connections = append(loc.Connections, names[i+1])
		}
		for s := 0; s < 1+rng.Intn(2); s++ {
			site := procHiddenSpots[rng.Intn(len(procHiddenSpots))]
			if rng.Float64() < 0.3 {
				site = procOpenSpots[rng.Intn(len(procOpenSpots))]
			}
			if _, dup := loc.Sites[site]; dup {
				continue
			}
			loc.Sites[site] = &domain.SiteRecord{
				Description:     fmt.Sprintf("A %s half-hidden among the %s.", site, name),
				Entities:        []domain.SiteEntity{},
				HistoryOfEvents: []string{},
				Discovered:      rng.Float64() < 0.4,
			}
		}
		doc.AddLocation(name, loc)
	}

	// Один выход наружу из первой локации.
	dir := domain.Directions[rng.Intn(len(domain.Directions))]
	first := doc.Locations[names[0]]
	first.Connections = append(first.Connections, systems.FormatExitToken(dir))

	// Изредка поперечная связь, чтобы граф не был голой цепочкой.
	if count >= 4 && rng.Float64() < 0.5 {
		a, b := names[0], names[count-1]
		doc.Locations[a].Connections = append(doc.Locations[a].Connections, b)
		doc.Locations[b].Connections = append(doc.Locations[b].Connections, a)
	}
	return doc, nil
}

// pickNames выбирает неповторяющиеся имена локаций; стартовый чанк
// всегда начинается с village.
func (g *ProcGenerator) pickNames(rng *rand.Rand, coord domain.Coord, count int) []string {
	perm := rng.Perm(len(procBiomes))
	names := make([]string, 0, count)
	if coord == domain.Origin {
		names = append(names, "village")
	}
	for _, idx := range perm {
		if len(names) == count {
			break
		}
		names = append(names, procBiomes[idx])
	}
	return names
}

// chunkSeed смешивает сид мира с координатами чанка.
func (g *ProcGenerator) chunkSeed(coord domain.Coord) int64 {
	h := g.seed
	h = h*31 + int64(coord.Q)*0x9E3779B9
	h = h*31 + int64(coord.R)*0x85EBCA6B
	return h
}
