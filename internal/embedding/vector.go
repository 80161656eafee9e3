package embedding

import (
	"encoding/binary"
	"fmt"
	"math"

	"docvault/internal/domain"
)

// Vectors are stored as opaque byte buffers: packed little-endian IEEE-754
// float32 values. Nothing but this file interprets the bytes.

// Encode packs a float32 vector into its stored byte form.
func Encode(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// Decode unpacks a stored byte buffer back into a float32 vector.
// A buffer whose length is not a multiple of 4 is corrupt.
func Decode(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%w: embedding buffer length %d is not a multiple of 4", domain.ErrInvalidState, len(buf))
	}
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vector, nil
}

// CosineSimilarity computes the dot product of the L2-normalized inputs.
// Returns 0 for mismatched lengths or zero vectors, which keeps degenerate
// chunks at the bottom of any ranking instead of erroring.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
