// Package vector holds the value types exchanged with the vector index.
package vector

// Metadata is the article snapshot stored next to an embedding.
type Metadata struct {
	Title       string
	Description string
	Summary     string
}

// Match is a single nearest-neighbor hit. Score is cosine similarity in [0,1].
type Match struct {
	ID    string
	Score float64
}
