package vector

import "context"

// Match is a single nearest-neighbor hit.
type Match struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Similarity  float64 `json:"similarity"`
	Done        bool    `json:"done,omitempty"`
}

// ResultSet is the wrapped result container some indexes return.
type ResultSet struct {
	Rows []Match `json:"rows"`
}

// Query describes a similarity search.
type Query struct {
	Vector     []float32
	Limit      int
	Threshold  float64
	ExcludeIDs []string
}

// Excludes reports whether id is in the query's exclusion list.
func (q Query) Excludes(id string) bool {
	for _, ex := range q.ExcludeIDs {
		if ex == id {
			return true
		}
	}
	return false
}

// Index is a nearest-neighbor index over item embeddings.
// The concrete type of the result is adapter specific; see Normalize.
type Index interface {
	Query(ctx context.Context, q Query) (any, error)
}
