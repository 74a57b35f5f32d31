package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ginjaninja78/seller-performance-report/internal/types"
)

// readJSONDataset decodes a combined document with sellers, products and
// purchase_records keys.
func readJSONDataset(path string) (*types.Dataset, error) {
	var data types.Dataset
	if err := readJSON(path, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// readJSON decodes path into v. Unknown fields are ignored; trailing data
// after the first value is an error.
func readJSON(path string, v interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse JSON %s: %w", path, err)
	}
	if dec.More() {
		return fmt.Errorf("failed to parse JSON %s: unexpected data after top-level value", path)
	}
	return nil
}
