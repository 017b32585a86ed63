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


// Package storage provides the storage abstraction layer of the knowledge
// base pipeline.
//
// This package defines repository interfaces that decouple storage
// implementation from the builder and retrieval logic:
//
//   - UnitRepository: per-source knowledge units, content-addressed by
//     fingerprint (the incrementality key)
//   - SourceLog: the configuration record of processed source filenames
//   - KnowledgeBaseStore: the merged, served knowledge base
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable alternative backends:
//
//	repo, err := badger.NewUnitRepository(backend)  // returns storage.UnitRepository
//
// Use the in-memory backend in tests:
//
//	repo, backend, err := badger.NewMemoryUnitRepository()
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. All methods accept context.Context.
package storage
