// Package codec serializes values for the durable store adapters.
//
// MessagePack is used because it round-trips the value shapes the
// executor threads between nodes (scalars, sequences, string-keyed
// structures) without the precision loss JSON imposes on numbers.
// Decoding normalizes representation: integers come back as int64
// family types and maps as map[string]any, which is the "modulo exact
// type representation" equivalence the store contract promises.
package codec

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode marshals a value into its stored representation.
func Encode(value any) ([]byte, error) {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// Decode unmarshals a stored representation back into a value.
func Decode(data []byte) (any, error) {
	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return value, nil
}
