package ingestion

import "errors"

var (
	// ErrUnitRepositoryRequired is returned when a unit repository is not provided.
	ErrUnitRepositoryRequired = errors.New("unit repository required")

	// ErrSourceLogRequired is returned when a source log is not provided.
	ErrSourceLogRequired = errors.New("source log required")

	// ErrKnowledgeBaseStoreRequired is returned when a knowledge base store is not provided.
	ErrKnowledgeBaseStoreRequired = errors.New("knowledge base store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrExtractorRequired is returned when a text extractor is not provided.
	ErrExtractorRequired = errors.New("text extractor required")
)
