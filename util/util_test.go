package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKeysSorted(t *testing.T) {
	m := map[uint8]string{9: "drums", 0: "piano", 4: "bass"}
	assert.Equal(t, []uint8{0, 4, 9}, GetKeys(m))
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 7))
	assert.Equal(7, Max(3, 7))
	assert.Equal(-2, Min(-2, 0))
}

func TestBinaryRoundTrip(t *testing.T) {
	type payload struct {
		Name  string
		Count int
	}
	path := filepath.Join(t.TempDir(), "data.dat")
	want := payload{Name: "manifest", Count: 3}

	assert.NoError(t, CreateBinary(path, want))
	got, err := ReadBinary[payload](path)
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ReadBinary[payload](filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)
}
