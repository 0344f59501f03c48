package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a corpus dump (the JSON encoding of Data) and builds an Index.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var d Data
	if err := json.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode corpus %s: %w", path, err)
	}
	return New(d)
}
