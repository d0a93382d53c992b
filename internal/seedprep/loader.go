package seedprep

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/abhisek/mathbank/internal/curator"
)

// seedDocument is the on-disk seed file shape.
type seedDocument struct {
	Problems []curator.SeedProblem `json:"problems"`
}

// LoadSeeds reads a seed file, synthesizing missing IDs and normalizing
// difficulty values.
func LoadSeeds(path string) ([]curator.SeedProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc seedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	for i := range doc.Problems {
		if doc.Problems[i].ID == "" {
			doc.Problems[i].ID = "seed-" + uuid.NewString()[:8]
		}
		doc.Problems[i].Difficulty = curator.NormalizeDifficulty(doc.Problems[i].Difficulty)
	}

	return doc.Problems, nil
}

// SaveSeeds writes seeds to path in the seed file format.
func SaveSeeds(path string, seeds []curator.SeedProblem) error {
	data, err := json.MarshalIndent(seedDocument{Problems: seeds}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}
