// Package iojson reads and writes JSON documents for command line output.
package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// WriteWith writes obj to w as indented JSON followed by a newline. When obj
// cannot be marshaled, a JSON error object is written to ew instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, marshalFailure(err))
		return errors.Join(fmt.Errorf("marshal output: %w", err), werr)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Decode reads exactly one JSON document from r into a T. Unknown object
// fields and trailing data are rejected so typos in hand written input
// surface as errors.
func Decode[T any](r io.Reader) (T, error) {
	var out T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	if dec.More() {
		return out, fmt.Errorf("decode JSON: unexpected data after document")
	}
	return out, nil
}

func marshalFailure(err error) string {
	bits, _ := json.Marshal(struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{
		Message: "failed to marshal output",
		Error:   err.Error(),
	})
	return string(bits)
}
