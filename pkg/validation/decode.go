package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Unmarshal decodes a single JSON value from data into v, like
// json.Unmarshal, except that numbers inside interface values are kept as
// json.Number. Comparisons then see the literal text: 12345678901234567
// stays exact and 10.0 stays "10.0".
func Unmarshal(data []byte, v any) error {
	return Decode(bytes.NewReader(data), v)
}

// Decode reads exactly one JSON value from r into v, keeping numbers as
// json.Number. Trailing non-whitespace input is an error.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// ErrTrailingData is returned by Decode when input continues after the
// first JSON value.
var ErrTrailingData = errors.New("unexpected data after top-level JSON value")
