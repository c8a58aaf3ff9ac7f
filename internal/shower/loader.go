package shower

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadShowers reads a JSON array of shower records from path and validates
// each record at the boundary. Any read, decode, or shape failure is
// returned with the path and record index so the caller can abort with a
// useful message.
func LoadShowers(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shower file %s: %w", path, err)
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to parse shower file %s: %w", path, err)
	}

	for i := range recs {
		if err := recs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i, err)
		}
	}

	return recs, nil
}
