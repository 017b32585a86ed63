package core

import (
	"errors"
	"testing"
)

func validChunk(source string, id int) Chunk {
	return Chunk{
		Source:      source,
		ChunkID:     id,
		Text:        "Les enfants doivent faire la sieste entre 12h00 et 14h00.",
		ContentHash: "abc123",
		Metadata:    SourceMetadata{Filename: source, Size: 42, Modified: 1700000000},
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Chunk)
		chunk   *Chunk
		wantErr error
	}{
		{
			name:   "valid chunk",
			mutate: func(c *Chunk) {},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty source",
			mutate:  func(c *Chunk) { c.Source = "" },
			wantErr: ErrEmptySource,
		},
		{
			name:    "negative chunk id",
			mutate:  func(c *Chunk) { c.ChunkID = -1 },
			wantErr: ErrNegativeChunkID,
		},
		{
			name:    "empty text",
			mutate:  func(c *Chunk) { c.Text = "" },
			wantErr: ErrEmptyText,
		},
		{
			name:    "whitespace-only text",
			mutate:  func(c *Chunk) { c.Text = "  \n\t " },
			wantErr: ErrEmptyText,
		},
		{
			name:    "missing fingerprint",
			mutate:  func(c *Chunk) { c.ContentHash = "" },
			wantErr: ErrEmptyFingerprint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := tt.chunk
			if tt.mutate != nil {
				c := validChunk("reglement.pdf", 0)
				tt.mutate(&c)
				chunk = &c
			}

			err := ValidateChunk(chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnit(t *testing.T) {
	newUnit := func() *KnowledgeBaseUnit {
		unit := &KnowledgeBaseUnit{
			Fingerprint: "abc123",
			Source:      "reglement.pdf",
			Model:       "all-MiniLM-L6-v2",
		}
		for i := 0; i < 3; i++ {
			unit.Chunks = append(unit.Chunks, EmbeddedChunk{
				Chunk:  validChunk("reglement.pdf", i),
				Vector: []float32{1, 0, 0},
			})
		}
		return unit
	}

	t.Run("valid unit", func(t *testing.T) {
		if err := ValidateUnit(newUnit()); err != nil {
			t.Errorf("ValidateUnit() unexpected error: %v", err)
		}
	})

	t.Run("nil unit", func(t *testing.T) {
		if err := ValidateUnit(nil); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("ValidateUnit(nil) error = %v, want %v", err, ErrInvalidUnit)
		}
	})

	t.Run("foreign fingerprint on chunk", func(t *testing.T) {
		unit := newUnit()
		unit.Chunks[1].ContentHash = "other"
		if err := ValidateUnit(unit); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("ValidateUnit() error = %v, want %v", err, ErrInvalidUnit)
		}
	})

	t.Run("out-of-order chunk ids", func(t *testing.T) {
		unit := newUnit()
		unit.Chunks[0].ChunkID, unit.Chunks[1].ChunkID = 1, 0
		if err := ValidateUnit(unit); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("ValidateUnit() error = %v, want %v", err, ErrInvalidUnit)
		}
	})

	t.Run("mixed dimensions", func(t *testing.T) {
		unit := newUnit()
		unit.Chunks[2].Vector = []float32{1, 0}
		if err := ValidateUnit(unit); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("ValidateUnit() error = %v, want %v", err, ErrDimensionMismatch)
		}
	})

	t.Run("embedded chunks without model", func(t *testing.T) {
		unit := newUnit()
		unit.Model = ""
		if err := ValidateUnit(unit); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("ValidateUnit() error = %v, want %v", err, ErrInvalidUnit)
		}
	})

	t.Run("unembedded unit is valid", func(t *testing.T) {
		unit := newUnit()
		unit.Model = ""
		for i := range unit.Chunks {
			unit.Chunks[i].Vector = nil
		}
		if err := ValidateUnit(unit); err != nil {
			t.Errorf("ValidateUnit() unexpected error: %v", err)
		}
	})
}

func TestNewKnowledgeBase(t *testing.T) {
	docs := func() []EmbeddedChunk {
		return []EmbeddedChunk{
			{Chunk: validChunk("a.pdf", 0), Vector: []float32{1, 0}},
			{Chunk: validChunk("a.pdf", 1), Vector: []float32{0, 1}},
			{Chunk: validChunk("b.pdf", 0), Vector: []float32{1, 1}},
		}
	}

	t.Run("valid knowledge base", func(t *testing.T) {
		kb, err := NewKnowledgeBase(docs(), "all-MiniLM-L6-v2")
		if err != nil {
			t.Fatalf("NewKnowledgeBase() unexpected error: %v", err)
		}
		if len(kb.Documents) != 3 {
			t.Errorf("got %d documents, want 3", len(kb.Documents))
		}
	})

	t.Run("empty knowledge base", func(t *testing.T) {
		kb, err := NewKnowledgeBase(nil, "")
		if err != nil {
			t.Fatalf("NewKnowledgeBase() unexpected error: %v", err)
		}
		if !kb.Empty() {
			t.Error("expected Empty() to be true")
		}
	})

	t.Run("duplicate (source, chunk id)", func(t *testing.T) {
		d := docs()
		d[1].ChunkID = 0
		if _, err := NewKnowledgeBase(d, "all-MiniLM-L6-v2"); !errors.Is(err, ErrDuplicateChunk) {
			t.Errorf("NewKnowledgeBase() error = %v, want %v", err, ErrDuplicateChunk)
		}
	})

	t.Run("embedded vectors without model identity", func(t *testing.T) {
		if _, err := NewKnowledgeBase(docs(), ""); !errors.Is(err, ErrModelMismatch) {
			t.Errorf("NewKnowledgeBase() error = %v, want %v", err, ErrModelMismatch)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		d := docs()
		d[2].Vector = []float32{1, 1, 1}
		if _, err := NewKnowledgeBase(d, "all-MiniLM-L6-v2"); !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("NewKnowledgeBase() error = %v, want %v", err, ErrDimensionMismatch)
		}
	})

	t.Run("unembedded chunks are allowed alongside embedded ones", func(t *testing.T) {
		d := docs()
		d[1].Vector = nil
		kb, err := NewKnowledgeBase(d, "all-MiniLM-L6-v2")
		if err != nil {
			t.Fatalf("NewKnowledgeBase() unexpected error: %v", err)
		}
		if kb.Documents[1].Embedded() {
			t.Error("expected chunk 1 to stay unembedded")
		}
	})
}
