package tools

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

// noArgs is used by tools without arguments.
type noArgs struct{}

// limitRules bound the optional 'limit' argument of list tools, zero selects the default.
var limitRules = []validation.Rule{validation.Min(0), validation.Max(maxListLimit)}

// limitOrDefault returns n, or defaultListLimit when n is not positive.
func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultListLimit
	}
	return n
}

// decodeArgs decodes raw tool arguments into out and validates the result when it implements validation.Validatable.
func decodeArgs(raw map[string]any, out any) error {
	if raw == nil {
		raw = map[string]any{}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("error creating argument decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return newArgumentError(fmt.Errorf("invalid arguments: %w", err))
	}

	if v, ok := out.(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return newArgumentError(err)
		}
	}

	return nil
}
