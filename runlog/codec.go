package runlog

import (
	"bytes"
	"encoding/gob"
)

// Codec translates records to and from their binary representation.
type Codec[V any] interface {
	Encode(value V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// GobCodec encodes records with encoding/gob. It works for any value gob
// can handle and needs no schema, at the cost of per-record type overhead.
type GobCodec[V any] struct{}

func (GobCodec[V]) Encode(value V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec[V]) Decode(data []byte) (V, error) {
	var value V
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&value); err != nil {
		return value, err
	}
	return value, nil
}

// BytesCodec stores records that already are raw bytes.
type BytesCodec struct{}

func (BytesCodec) Encode(value []byte) ([]byte, error) { return value, nil }

func (BytesCodec) Decode(data []byte) ([]byte, error) { return data, nil }

// StringCodec stores plain strings.
type StringCodec struct{}

func (StringCodec) Encode(value string) ([]byte, error) { return []byte(value), nil }

func (StringCodec) Decode(data []byte) (string, error) { return string(data), nil }
