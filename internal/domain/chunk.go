package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// SiteEntity - объект, найденный внутри сайта при обыске (предмет, персонаж...).
type SiteEntity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	HistoryOfEvents []string `json:"history_of_events"`
}

// SiteRecord - вложенная под-локация (здание, пещера...).
// Пока Discovered=false, сайт не предлагается игроку и войти в него нельзя.
type SiteRecord struct {
	Discovered      bool         `json:"discovered"`
	Description     string       `json:"description"`
	Entities        []SiteEntity `json:"entities"`
	HistoryOfEvents []string     `json:"history_of_events"`

	// Enriched - описание уже один раз обогащалось нарративным вызовом.
	// После этого сохраненный текст авторитетен, повторных вызовов не делаем.
	Enriched bool `json:"enriched,omitempty"`
}

// LocationRecord - именованная локация внутри чанка.
type LocationRecord struct {
	// Visible=false означает секретную локацию: она существует в данных,
	// но не предлагается как цель перемещения и не показывается игроку.
	Visible         bool                   `json:"visible"`
	Connections     []string               `json:"connections"`
	Description     string                 `json:"description"`
	HistoryOfEvents []string               `json:"history_of_events"`
	Sites           map[string]*SiteRecord `json:"sites"`
}

// SiteNames возвращает имена сайтов в стабильном (алфавитном) порядке.
func (l *LocationRecord) SiteNames() []string {
	names := make([]string, 0, len(l.Sites))
	for name := range l.Sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChunkDocument - полное содержимое одного чанка.
// Хранится в БД как единый JSON-блоб, ключ (q,r) уникален.
type ChunkDocument struct {
	Locations map[string]*LocationRecord

	// order - имена локаций в порядке появления в исходном JSON.
	// Генератор перечисляет локации осмысленно (первая - "главная"),
	// и этот порядок используется как детерминированный fallback
	// при выборе локации прибытия.
	order []string
}

// LocationNames возвращает имена локаций в порядке появления в документе.
func (d *ChunkDocument) LocationNames() []string {
	return append([]string(nil), d.order...)
}

// AddLocation добавляет локацию, сохраняя порядок вставки.
func (d *ChunkDocument) AddLocation(name string, loc *LocationRecord) {
	if d.Locations == nil {
		d.Locations = make(map[string]*LocationRecord)
	}
	if _, ok := d.Locations[name]; !ok {
		d.order = append(d.order, name)
	}
	d.Locations[name] = loc
}

// UnmarshalJSON разбирает документ, запоминая порядок ключей "locations".
// Стандартный map порядок теряет, а он нужен для детерминизма (см. order).
func (d *ChunkDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Locations json.RawMessage `json:"locations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Locations) == 0 {
		return fmt.Errorf("chunk document: missing 'locations'")
	}

	if err := json.Unmarshal(raw.Locations, &d.Locations); err != nil {
		return err
	}

	// Повторный проход декодером по токенам, чтобы вытащить порядок ключей.
	dec := json.NewDecoder(bytes.NewReader(raw.Locations))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("chunk document: 'locations' is not an object")
	}

	d.order = d.order[:0]
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("chunk document: unexpected token %v", tok)
		}
		d.order = append(d.order, name)
		// Значение целиком пропускаем - сами локации уже разобраны выше.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON сериализует документ, воспроизводя исходный порядок локаций.
func (d *ChunkDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"locations":{`)

	names := d.order
	if len(names) != len(d.Locations) {
		// Порядок рассинхронизировался (документ собран вручную) - достраиваем.
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			seen[n] = true
		}
		var extra []string
		for n := range d.Locations {
			if !seen[n] {
				extra = append(extra, n)
			}
		}
		sort.Strings(extra)
		names = append(append([]string(nil), names...), extra...)
	}

	for i, name := range names {
		loc, ok := d.Locations[name]
		if !ok {
			continue
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(loc)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
