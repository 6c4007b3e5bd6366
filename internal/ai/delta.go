package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
)

// ParseStatResponse разбирает ответ нарративного вызова в формате:
//
//	DESCRIPTION: [текст для игрока]
//	STATS:
//	money: -5
//	energy: +3
//	...
//
// Формат нестрогий: модель может написать "+5", "5" или мусор. Нечисловые
// значения пропускаются по одному; если же не нашлось ни описания, ни
// единой валидной строки статов, возвращается ErrNarrativeParseFailure -
// вызывающий применяет нулевую дельту и показывает сырой текст.
func ParseStatResponse(raw string) (string, domain.StatDelta, error) {
	var (
		description string
		delta       domain.StatDelta
		parsedAny   bool
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "DESCRIPTION:"):
			description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
			parsedAny = true
		case strings.HasPrefix(line, "STATS:"):
			continue
		case strings.Contains(line, ":"):
			name, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			n, err := parseSignedInt(value)
			if err != nil {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "money":
				delta.Money = n
			case "energy":
				delta.Energy = n
			case "hunger":
				delta.Hunger = n
			case "thirst":
				delta.Thirst = n
			case "alignment":
				delta.Alignment = n
			default:
				continue
			}
			parsedAny = true
		}
	}

	if !parsedAny {
		return "", domain.StatDelta{}, fmt.Errorf("%w: %.80q", domain.ErrNarrativeParseFailure, raw)
	}
	if description == "" {
		// Статы распарсились, а заголовка DESCRIPTION нет - берем все,
		// что идет до блока STATS, как описание.
		head, _, _ := strings.Cut(raw, "STATS:")
		description = strings.TrimSpace(head)
	}
	return description, delta, nil
}

func parseSignedInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimPrefix(s, "+")
	// Модель иногда оборачивает число в скобки: "[ -5 ]".
	s = strings.Trim(s, "[] ")
	return strconv.Atoi(s)
}
