package serializer

import (
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"
)

// YAMLSerializer uses gopkg.in/yaml.v3.
type YAMLSerializer struct{}

// Marshal serializes the given value into a byte slice.
func (*YAMLSerializer) Marshal(v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to marshal yaml")
	}

	return data, nil
}

// Unmarshal deserializes the given byte slice into the given value.
func (*YAMLSerializer) Unmarshal(data []byte, v any) error {
	err := yaml.Unmarshal(data, v)
	if err != nil {
		return ewrap.Wrap(err, "failed to unmarshal yaml")
	}

	return nil
}
