package util

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/constraints"
)

// GetKeys returns a map's keys in ascending order.
func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Min returns the smaller of two integers.
func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

// Max returns the larger of two integers.
func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

// CreateBinary gob-encodes data into a file.
func CreateBinary(filename string, data any) error {
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode %v: %w", filename, err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write failed for file %v: %w", filename, err)
	}
	return nil
}

// ReadBinary gob-decodes a file written by CreateBinary.
func ReadBinary[A any](path string) (A, error) {
	var data A
	f, err := os.Open(path)
	if err != nil {
		return data, fmt.Errorf("could not load binary file: %w", err)
	}
	defer f.Close()

	decoder := gob.NewDecoder(f)
	if err := decoder.Decode(&data); err != nil {
		return data, fmt.Errorf("could not decode binary file: %w", err)
	}
	return data, nil
}
