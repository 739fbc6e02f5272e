package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Lexical ranks by keyword relevance with field boosts.
	Lexical Mode = "lexical"
	// Vector ranks by embedding cosine similarity.
	Vector Mode = "vector"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Lexical || m == Vector
}
