package client

// Helpers for editing cached collections inside a mutation's Apply.
// Each returns a fresh slice; cached values are never modified in
// place. A value of an unexpected type is returned untouched so a
// mis-keyed entry can not panic a mutation.

func appendItem[T any](v any, item T) any {
	items, ok := v.([]T)
	if !ok {
		return v
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func dropItem[T any](v any, id string, idOf func(T) string) any {
	items, ok := v.([]T)
	if !ok {
		return v
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) != id {
			out = append(out, it)
		}
	}
	return out
}

func patchItem[T any](v any, id string, idOf func(T) string, apply func(T) T) any {
	items, ok := v.([]T)
	if !ok {
		return v
	}
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if idOf(out[i]) == id {
			out[i] = apply(out[i])
		}
	}
	return out
}

func patchPtr[T any](v any, apply func(T) T) any {
	p, ok := v.(*T)
	if !ok {
		return v
	}
	out := apply(*p)
	return &out
}
