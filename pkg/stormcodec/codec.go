// Package stormcodec provides the codecs that can be used to store records with Storm.
package stormcodec

import (
	"bytes"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

var (
	// CBOR encodes to and decodes from CBOR (Concise Binary Object Representation).
	// http://cbor.io/
	// https://tools.ietf.org/html/rfc7049
	CBOR codec.MarshalUnmarshaler = &handle{name: "cbor", h: &ugorji.CborHandle{}}
	// Binc encodes to and decodes from Binc.
	// See https://github.com/ugorji/binc
	Binc codec.MarshalUnmarshaler = &handle{name: "binc", h: &ugorji.BincHandle{}}

	// Default is the codec used when none is configured.
	Default = msgpack.Codec
)

// ByName returns the codec registered under the given name.
// An empty name returns the Default codec.
func ByName(name string) (codec.MarshalUnmarshaler, error) {
	switch name {
	case "", Default.Name():
		return Default, nil
	case CBOR.Name():
		return CBOR, nil
	case Binc.Name():
		return Binc, nil
	case json.Codec.Name():
		return json.Codec, nil
	}
	return nil, errors.Errorf("unsupported storm codec: %s", name)
}

type handle struct {
	name string
	h    ugorji.Handle
}

func (c *handle) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := ugorji.NewEncoder(&b, c.h)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *handle) Unmarshal(b []byte, v any) error {
	dec := ugorji.NewDecoder(bytes.NewReader(b), c.h)
	return dec.Decode(v)
}

func (c *handle) Name() string {
	return c.name
}
