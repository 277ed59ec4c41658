package domain

import (
	"errors"
	"fmt"
)

const (
	maxCustomizationKeys  = 32
	maxCustomizationDepth = 3
	maxCustomizationText  = 2048
)

// ValidateCustomization checks a free-form customization map structurally:
// bounded key count, nesting depth and string length, with values limited to
// strings, numbers, booleans, arrays and nested maps. Semantics of the fields
// are not interpreted here.
func ValidateCustomization(data map[string]interface{}) error {
	if data == nil {
		return nil
	}
	return validateCustomizationMap(data, 1)
}

func validateCustomizationMap(data map[string]interface{}, depth int) error {
	if depth > maxCustomizationDepth {
		return errors.New("customization nested too deeply")
	}
	if len(data) > maxCustomizationKeys {
		return fmt.Errorf("customization has %d keys, max %d", len(data), maxCustomizationKeys)
	}
	for key, value := range data {
		if key == "" {
			return errors.New("customization key must not be empty")
		}
		if err := validateCustomizationValue(value, depth); err != nil {
			return fmt.Errorf("customization field %q: %w", key, err)
		}
	}
	return nil
}

func validateCustomizationValue(value interface{}, depth int) error {
	switch v := value.(type) {
	case nil, bool, float64, int, int64:
		return nil
	case string:
		if len(v) > maxCustomizationText {
			return fmt.Errorf("text exceeds %d bytes", maxCustomizationText)
		}
		return nil
	case []interface{}:
		if len(v) > maxCustomizationKeys {
			return fmt.Errorf("array has %d elements, max %d", len(v), maxCustomizationKeys)
		}
		for _, item := range v {
			if err := validateCustomizationValue(item, depth+1); err != nil {
				return err
			}
		}
		return nil
	case map[string]interface{}:
		return validateCustomizationMap(v, depth+1)
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
}
