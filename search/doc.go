// Package search ranks knowledge-base chunks by cosine similarity against an
// embedded query. The engine serves an atomically swappable snapshot of the
// knowledge base, so a rebuild can replace the served corpus without pausing
// in-flight queries.
package search
