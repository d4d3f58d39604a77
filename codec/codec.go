// Package codec (de)serializes cached values. Result pages, static entries
// and task payloads all go through a Codec so the storage layer only ever
// sees bytes.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
