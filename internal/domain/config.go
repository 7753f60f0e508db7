package domain

// KeyPrefix is the default namespace for every key the service writes.
const KeyPrefix = "articles:"

// VectorConfig holds vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model          string
	Dimensions     int
	HNSWM          int
	EFConstruction int
}

// DefaultVectorConfig returns the default configuration for OpenAI embeddings.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     1536,
		HNSWM:          16,
		EFConstruction: 200,
	}
}

// CompletionConfig holds summary generation settings.
type CompletionConfig struct {
	Model     string
	MaxTokens int
}

// DefaultCompletionConfig returns the default summary model and output budget.
func DefaultCompletionConfig() CompletionConfig {
	return CompletionConfig{
		Model:     "gpt-4",
		MaxTokens: 150,
	}
}
