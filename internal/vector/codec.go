package vector

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyEncoding is returned by Decode for blank input.
var ErrEmptyEncoding = errors.New("empty vector encoding")

// Encode returns the sheet column form of v: base64 of its JSON array.
func Encode(v []float32) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vector: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses a value produced by Encode.
func Decode(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyEncoding
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vector: %w", err)
	}
	var v []float32
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector: %w", err)
	}
	return v, nil
}

// ToBytes packs v as little-endian float32 values.
func ToBytes(v []float32) []byte {
	const size = 4
	out := make([]byte, len(v)*size)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(f))
	}
	return out
}

// FromBytes unpacks a slice produced by ToBytes. Trailing bytes that do not
// form a full value are ignored.
func FromBytes(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
