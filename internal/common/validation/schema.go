// Package validation validates raw menu record payloads against a JSON
// schema before they reach storage. Both the display and storage field
// naming schemes are accepted.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// menuRecordSchema accepts either naming scheme per field. Name is the only
// hard requirement; everything else is optional with type constraints so a
// well-formed partial record still passes.
var menuRecordSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id":              map[string]interface{}{"type": "string"},
		"_id":             map[string]interface{}{"type": "string"},
		"name":            map[string]interface{}{"type": "string", "minLength": 1},
		"nome":            map[string]interface{}{"type": "string", "minLength": 1},
		"description":     map[string]interface{}{"type": "string"},
		"descricao":       map[string]interface{}{"type": "string"},
		"category":        categoryProperty(),
		"categoria":       categoryProperty(),
		"price":           priceProperty(),
		"preco":           priceProperty(),
		"preparationTime": map[string]interface{}{"type": "number", "minimum": 0},
		"tempoPreparo":    map[string]interface{}{"type": "number", "minimum": 0},
		"isAvailable":     map[string]interface{}{"type": "boolean"},
		"disponivel":      map[string]interface{}{"type": "boolean"},
		"isVegetarian":    map[string]interface{}{"type": "boolean"},
		"vegetariano":     map[string]interface{}{"type": "boolean"},
		"isVegan":         map[string]interface{}{"type": "boolean"},
		"vegano":          map[string]interface{}{"type": "boolean"},
		"isGlutenFree":    map[string]interface{}{"type": "boolean"},
		"semGluten":       map[string]interface{}{"type": "boolean"},
		"specialOffer":    map[string]interface{}{"type": "boolean"},
		"ofertaEspecial":  map[string]interface{}{"type": "boolean"},
		"ingredients":     stringListProperty(),
		"ingredientes":    stringListProperty(),
		"tags":            stringListProperty(),
		"etiquetas":       stringListProperty(),
		"preparationDate": map[string]interface{}{"type": "string"},
		"dataPreparacao":  map[string]interface{}{"type": "string"},
		"dayOfWeek":       weekdayProperty(),
		"diaSemana":       weekdayProperty(),
	},
	"anyOf": []interface{}{
		map[string]interface{}{"required": []interface{}{"name"}},
		map[string]interface{}{"required": []interface{}{"nome"}},
	},
	"additionalProperties": false,
}

func categoryProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "string",
		"enum": []interface{}{"entrada", "prato-principal", "sobremesa", "bebida", "especial"},
	}
}

func priceProperty() map[string]interface{} {
	return map[string]interface{}{"type": "number", "minimum": 0}
}

func stringListProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
}

func weekdayProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "string",
		"enum": []interface{}{"domingo", "segunda", "terca", "quarta", "quinta", "sexta", "sabado"},
	}
}

// ValidateMenuRecord checks a decoded menu record against the schema and
// returns the list of violations, empty when the record is valid.
func ValidateMenuRecord(record map[string]interface{}) ([]string, error) {
	schemaLoader := gojsonschema.NewGoLoader(menuRecordSchema)
	documentLoader := gojsonschema.NewGoLoader(record)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}

// FormatViolations flattens violations into a single message for error
// details.
func FormatViolations(violations []string) string {
	return strings.Join(violations, "; ")
}
