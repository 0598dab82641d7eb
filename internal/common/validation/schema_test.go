// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMenuRecord(t *testing.T) {
	tests := []struct {
		name      string
		record    map[string]interface{}
		wantValid bool
	}{
		{
			name: "valid display scheme",
			record: map[string]interface{}{
				"name":     "Feijoada",
				"category": "prato-principal",
				"price":    42.5,
			},
			wantValid: true,
		},
		{
			name: "valid storage scheme",
			record: map[string]interface{}{
				"nome":      "Feijoada",
				"categoria": "prato-principal",
				"preco":     42.5,
				"diaSemana": "sabado",
			},
			wantValid: true,
		},
		{
			name:      "missing name in both schemes",
			record:    map[string]interface{}{"price": 10.0},
			wantValid: false,
		},
		{
			name: "negative price",
			record: map[string]interface{}{
				"nome":  "Suco",
				"preco": -1.0,
			},
			wantValid: false,
		},
		{
			name: "unknown category",
			record: map[string]interface{}{
				"nome":      "Suco",
				"categoria": "lanche",
			},
			wantValid: false,
		},
		{
			name: "unknown weekday",
			record: map[string]interface{}{
				"nome":      "Suco",
				"diaSemana": "lunes",
			},
			wantValid: false,
		},
		{
			name: "unexpected field rejected",
			record: map[string]interface{}{
				"nome":     "Suco",
				"desconto": 0.1,
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := ValidateMenuRecord(tt.record)
			require.NoError(t, err)
			if tt.wantValid {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}

func TestFormatViolations(t *testing.T) {
	assert.Equal(t, "a; b", FormatViolations([]string{"a", "b"}))
	assert.Equal(t, "", FormatViolations(nil))
}
