package vector

import (
	"fmt"
	"iter"
)

// Normalize flattens an index result into a slice of matches.
// Supported shapes are []Match, []*Match, ResultSet, *ResultSet,
// iter.Seq[Match] and nil. Nil entries inside []*Match are skipped.
func Normalize(result any) ([]Match, error) {
	switch r := result.(type) {
	case nil:
		return []Match{}, nil
	case []Match:
		out := make([]Match, len(r))
		copy(out, r)
		return out, nil
	case []*Match:
		out := make([]Match, 0, len(r))
		for _, m := range r {
			if m != nil {
				out = append(out, *m)
			}
		}
		return out, nil
	case ResultSet:
		return Normalize(r.Rows)
	case *ResultSet:
		if r == nil {
			return []Match{}, nil
		}
		return Normalize(r.Rows)
	case iter.Seq[Match]:
		out := []Match{}
		if r == nil {
			return out, nil
		}
		for m := range r {
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, result)
	}
}
