// Package api exposes the SplitPal services over Connect RPC.
//
// Messages are plain Go structs carried as JSON, so every handler and client
// must be built with the Codec option. Procedures live under
// /splitpal.v1.<Service>/<Method>.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec marshals messages with encoding/json. It registers under the name
// "json" and so replaces Connect's protobuf-only JSON codec.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// WithCodec configures a handler or client to speak the JSON wire format.
func WithCodec() connect.Option {
	return connect.WithCodec(Codec{})
}
