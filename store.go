package bloomkit

import (
	"bytes"
	"fmt"
	"os"
)

// SaveFilter writes a snapshot of f to path, replacing any existing file.
func SaveFilter(path string, f *BloomFilter) error {
	buf := new(bytes.Buffer)
	if err := f.Marshal(buf); err != nil {
		return fmt.Errorf("marshalling filter snapshot: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	return file.Close()
}

// LoadFilter rebuilds a filter from a snapshot file written by SaveFilter.
func LoadFilter(path string) (*BloomFilter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return UnMarshalFilter(src)
}
