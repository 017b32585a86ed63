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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/fossouo/creche-pilou-chatbot/core"
)

// MarshalUnit serializes a KnowledgeBaseUnit to bytes.
func MarshalUnit(unit *core.KnowledgeBaseUnit) ([]byte, error) {
	data, err := json.Marshal(unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalUnit deserializes a KnowledgeBaseUnit from bytes.
func UnmarshalUnit(data []byte) (*core.KnowledgeBaseUnit, error) {
	var unit core.KnowledgeBaseUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &unit, nil
}

// MarshalSourceRecord serializes a SourceRecord to bytes.
func MarshalSourceRecord(record *SourceRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalSourceRecord deserializes a SourceRecord from bytes.
func UnmarshalSourceRecord(data []byte) (*SourceRecord, error) {
	var record SourceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}
