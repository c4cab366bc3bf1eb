package adminrpc

import "encoding/json"

// jsonCodec carries plain Go structs over Connect. It replaces the default
// protobuf JSON codec, which only accepts proto messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
