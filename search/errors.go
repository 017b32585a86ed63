// Copyright 2025 Fossouo Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrSnapshotRequired is returned when a snapshot is not provided.
	ErrSnapshotRequired = errors.New("snapshot required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuery is returned for an empty or whitespace-only query.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidLimit is returned for a non-positive topK.
	ErrInvalidLimit = errors.New("topK must be positive")

	// ErrSearchUnavailable indicates the query could not be embedded, so no
	// ranking could be produced. Distinct from an empty result: the caller
	// must surface a "search unavailable" condition, not "no answer found".
	ErrSearchUnavailable = errors.New("search unavailable")
)
