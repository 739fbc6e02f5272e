package db

// KNNQuery is the input for vector similarity search.
// Filter is an engine-syntax pre-filter expression ("*"-semantics when empty);
// candidates outside it are never scored.
type KNNQuery struct {
	IndexName    string
	Filter       string
	Vector       []float32
	K            int
	EFRuntime    int // HNSW search-time breadth; 0 = engine default
	ReturnFields []string
}

// TextQuery is the input for scored full-text search. Query is a complete
// engine-syntax query string, filters already folded in by the caller.
type TextQuery struct {
	IndexName    string
	Query        string
	Offset       int
	Limit        int
	SortBy       string // field alias; empty = order by ranker score
	SortDesc     bool
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
