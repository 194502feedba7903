package template

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes a template as JSON, the storage and transport form.
func Marshal(t *Template) ([]byte, error) {
	data, err := codec.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("template: encoding %q: %w", t.Name, err)
	}
	return data, nil
}

// Unmarshal decodes a template from its JSON form.
func Unmarshal(data []byte) (*Template, error) {
	var t Template
	if err := codec.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("template: decoding: %w", err)
	}
	return &t, nil
}
