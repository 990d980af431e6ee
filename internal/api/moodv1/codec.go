package moodv1

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// CodecName is the name of the JSON codec, served as application/json.
const CodecName = "json"

// Codec marshals plain Go messages as JSON. It replaces the protobuf JSON
// codec on every handler and client of this package.
type Codec struct{}

func (Codec) Name() string {
	return CodecName
}

func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %T", msg)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %T", msg)
	}
	return nil
}
