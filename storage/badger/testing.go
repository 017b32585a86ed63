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


package badger

import "github.com/fossouo/creche-pilou-chatbot/storage"

// NewMemoryRepositories creates an in-memory unit repository and source log
// for testing. Returns unitRepo, sourceLog, backend, and error.
// Caller must close the repo and backend when done.
func NewMemoryRepositories() (storage.UnitRepository, storage.SourceLog, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	unitRepo, err := NewUnitRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	sourceLog, err := NewSourceLog(backend)
	if err != nil {
		unitRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return unitRepo, sourceLog, backend, nil
}
