package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice. The blob
// must be a whole number of float32 values and match the recorded dimension,
// otherwise the row is treated as corrupt.
func deserializeVector(blob []byte, dimension int) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("%w: blob length %d not a multiple of 4", types.ErrCacheCorrupt, len(blob))
	}
	if len(blob)/4 != dimension {
		return nil, fmt.Errorf("%w: blob holds %d values, dimension records %d", types.ErrCacheCorrupt, len(blob)/4, dimension)
	}

	vector := make([]float32, dimension)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}
