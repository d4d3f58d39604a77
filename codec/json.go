package codec

import "encoding/json"

// JSON is the default codec for result pages and static entries. The zero
// value is ready to use. Entries stay readable through generic store tooling
// (redis-cli GET on a result key shows the page inside the wire frame),
// which is worth the extra bytes for most deployments.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
