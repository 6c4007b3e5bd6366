package world

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/RoboSupreme/my-hex-game/internal/domain"
	"github.com/RoboSupreme/my-hex-game/internal/systems"
)

// Схема структуры чанка. Проверяет форму документа; семантику
// exit-токенов схема выразить не может, ее проверяет ValidateChunk ниже.
const chunkSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["locations"],
  "properties": {
    "locations": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["visible", "connections", "description", "sites"],
        "properties": {
          "visible": {"type": "boolean"},
          "connections": {"type": "array", "items": {"type": "string", "minLength": 1}},
          "description": {"type": "string"},
          "history_of_events": {"type": "array", "items": {"type": "string"}},
          "sites": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["description"],
              "properties": {
                "description": {"type": "string"},
                "discovered": {"type": "boolean"},
                "entities": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["name"],
                    "properties": {
                      "name": {"type": "string", "minLength": 1},
                      "description": {"type": "string"},
                      "history_of_events": {"type": "array", "items": {"type": "string"}}
                    }
                  }
                },
                "history_of_events": {"type": "array", "items": {"type": "string"}}
              }
            }
          }
        }
      }
    }
  }
}`

var chunkSchema = jsonschema.MustCompileString("chunk.schema.json", chunkSchemaJSON)

// ValidateChunk проверяет документ генератора перед записью в базу:
// структурная валидация по схеме, затем семантика соединений. Любая
// ошибка означает "документ непригоден" - вызывающий подставит заглушку.
func ValidateChunk(doc *domain.ChunkDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrGenerationFailure, err)
	}

	var v any
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	if err := chunkSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: schema: %v", domain.ErrGenerationFailure, err)
	}

	for name, loc := range doc.Locations {
		for _, conn := range loc.Connections {
			if systems.IsExitToken(conn) {
				if _, err := systems.ParseExitToken(conn); err != nil {
					return fmt.Errorf("%w: location %q: %v", domain.ErrGenerationFailure, name, err)
				}
				continue
			}
			if conn == name {
				return fmt.Errorf("%w: location %q links to itself", domain.ErrGenerationFailure, name)
			}
			if _, ok := doc.Locations[conn]; !ok {
				return fmt.Errorf("%w: location %q links to unknown %q", domain.ErrGenerationFailure, name, conn)
			}
		}
	}
	return nil
}
