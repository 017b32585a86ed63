// Package reembed provides functionality for reembedding stored knowledge
// units with a new or updated embedding model.
//
// This package supports batch processing of chunk texts, progress tracking
// and retry logic with exponential backoff. Rewriting every unit under one
// model identity keeps the merge step's model validation passing after an
// embedding model change.
package reembed
