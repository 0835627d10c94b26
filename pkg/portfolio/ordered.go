package portfolio

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// decodeObject walks a JSON object in document order, calling fn once per key.
// A JSON null is accepted and yields no calls.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) (err error)) (err error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var tok json.Token
	tok, err = dec.Token()
	if err != nil {
		err = errors.Wrap(err, "failed to read JSON object")
		return err
	}

	if tok == nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		err = errors.Errorf("expected JSON object, got %v", tok)
		return err
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			err = errors.Wrap(err, "failed to read object key")
			return err
		}

		key, isString := tok.(string)
		if !isString {
			err = errors.Errorf("expected object key, got %v", tok)
			return err
		}

		var raw json.RawMessage
		err = dec.Decode(&raw)
		if err != nil {
			err = errors.Wrapf(err, "failed to read value for key %q", key)
			return err
		}

		err = fn(key, raw)
		if err != nil {
			return err
		}
	}

	// closing brace
	_, err = dec.Token()
	if err != nil {
		err = errors.Wrap(err, "failed to read end of JSON object")
		return err
	}

	return err
}

// encodeObject writes key/value pairs as a JSON object in the given order.
func encodeObject(keys []string, value func(i int) (v interface{})) (data []byte, err error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		var k, v []byte
		k, err = json.Marshal(key)
		if err != nil {
			err = errors.Wrapf(err, "failed to marshal key %q", key)
			return data, err
		}

		v, err = json.Marshal(value(i))
		if err != nil {
			err = errors.Wrapf(err, "failed to marshal value for key %q", key)
			return data, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	data = buf.Bytes()

	return data, err
}
