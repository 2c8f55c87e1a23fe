// Package jsoncompat selects the json codec used across the module. The
// default build uses sonic, the stdjson build tag falls back to encoding/json.
package jsoncompat

import "io"

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}

// DecodeReader reads all of r and unmarshals it into v.
func DecodeReader(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(data, v)
}
