package api

type Convertible[T any] interface {
	// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
	// It should be responsible for any normalization required to ensure consistency
	// across the API boundary.
	ToAPIType() (T, error)
}

// project converts every element of in through the Convertible returned by wrap.
func project[S any, T any](in []S, wrap func(S) Convertible[T]) ([]T, error) {
	out := make([]T, 0, len(in))
	for _, s := range in {
		t, err := wrap(s).ToAPIType()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
