package dashboard

import (
	"errors"
	"testing"
)

func definitionByCode(t *testing.T, code string) WidgetDefinition {
	t.Helper()
	for _, def := range DefaultWidgetDefinitions() {
		if def.Code == code {
			return def
		}
	}
	t.Fatalf("definition %s not found", code)
	return WidgetDefinition{}
}

func TestJSONSchemaValidatorOrderListPageSize(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := definitionByCode(t, orderListCode)

	if err := validator.Validate(def, map[string]any{"page_size": 5}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	err := validator.Validate(def, map[string]any{"page_size": 0})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if err := validator.Validate(def, map[string]any{"columns": []string{"id"}}); err == nil {
		t.Fatalf("expected unknown keys to be rejected")
	}
}

func TestJSONSchemaValidatorKPIMetrics(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := definitionByCode(t, kpiCardsCode)

	if err := validator.Validate(def, map[string]any{"metrics": []string{"orders", "revenue"}}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := validator.Validate(def, map[string]any{"metrics": []string{"churn"}}); err == nil {
		t.Fatalf("expected unknown metric to be rejected")
	}
}

func TestJSONSchemaValidatorRecompilesChangedSchema(t *testing.T) {
	validator := NewJSONSchemaValidator()
	def := WidgetDefinition{
		Code:   "demo.widget.cache",
		Schema: map[string]any{"type": "object"},
	}
	if err := validator.Validate(def, nil); err != nil {
		t.Fatalf("unexpected error validating config: %v", err)
	}
	if err := validator.Validate(def, map[string]any{}); err != nil {
		t.Fatalf("unexpected error on cached validation: %v", err)
	}
	if len(validator.compiled) != 1 {
		t.Fatalf("expected schema cache to contain 1 entry, got %d", len(validator.compiled))
	}

	def.Schema = map[string]any{"type": "object", "required": []string{"name"}}
	if err := validator.Validate(def, map[string]any{}); err == nil {
		t.Fatalf("expected the updated schema to apply")
	}
	if len(validator.compiled) != 2 {
		t.Fatalf("expected a second compiled schema, got %d", len(validator.compiled))
	}
}
