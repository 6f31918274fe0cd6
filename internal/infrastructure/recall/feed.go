package recall

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scansafe/scansafe/internal/core/domain"
)

// LoadNotices reads a JSON array of recall notices from path. An empty path
// yields an empty feed, not an error.
func LoadNotices(path string) ([]domain.RecallNotice, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recall feed: %w", err)
	}

	var notices []domain.RecallNotice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil, fmt.Errorf("decode recall feed: %w", err)
	}
	return notices, nil
}
