package api

import "github.com/danielgtaylor/huma/v2"

// Transformers returns all response transformers used by the API.
// Transformers modify responses after handlers execute but before serialization.
//
// IMPORTANT: Order matters. Transformers execute sequentially, with each transformer's
// output becoming the next transformer's input.
//
// Current transformers:
//   - toolFieldSelectTransformer: Filters tool responses based on ?detail= query parameter.
func Transformers() []huma.Transformer {
	return []huma.Transformer{
		toolFieldSelectTransformer,
	}
}

// NewConfig returns the huma configuration for the API with the transformers installed
// ahead of huma's own.
func NewConfig(title string, version string) huma.Config {
	config := huma.DefaultConfig(title, version)
	config.Transformers = append(Transformers(), config.Transformers...)
	return config
}
