package layout

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Encode serializes a scene with msgpack, for caching.
func Encode(s *Scene) ([]byte, error) {
	return msgpack.Marshal(s)
}

// Decode restores a scene produced by [Encode].
func Decode(data []byte) (*Scene, error) {
	var s Scene
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
