// Package json wraps jsoniter behind a stdlib-compatible API.
// All etm-core components use this package instead of encoding/json.
package json

import (
	jsoniter "github.com/json-iterator/go"
)

// JSON is the shared jsoniter instance, fully compatible with the standard
// library semantics.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return JSON.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return JSON.Unmarshal(data, v)
}

func MarshalToString(v interface{}) (string, error) {
	return JSON.MarshalToString(v)
}

func UnmarshalFromString(str string, v interface{}) error {
	return JSON.UnmarshalFromString(str, v)
}

// NewDecoder mirrors json.NewDecoder for streaming reads.
var NewDecoder = JSON.NewDecoder

// NewEncoder mirrors json.NewEncoder for streaming writes.
var NewEncoder = JSON.NewEncoder

type RawMessage = jsoniter.RawMessage
