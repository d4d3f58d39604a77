package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5. The zero value is
// ready to use. A sensible swap-in for JSON when result pages grow large
// (hundreds of listings) and shared-store bandwidth starts to matter; the
// stored bytes become opaque to generic tooling. Field names follow
// `msgpack:"..."` tags, not the JSON ones.
type Msgpack[V any] struct{}

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
