// Package serializer decodes raw statistics dumps into generic Go trees.
// Every format yields the same shape: nested map[string]any with scalar leaves.
package serializer

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
)

// ISerializer is the interface that wraps the basic serializer methods.
type ISerializer interface {
	// Marshal serializes the given value into a byte slice.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes the given byte slice into the given value.
	Unmarshal(data []byte, v any) error
}

// Registry manages serializer constructors.
type Registry struct {
	serializers map[string]func() ISerializer
}

// getDefaultSerializers returns the default set of serializers.
func getDefaultSerializers() map[string]func() ISerializer {
	return map[string]func() ISerializer{
		constants.FormatJSON: func() ISerializer {
			return &JSONSerializer{}
		},
		constants.FormatMsgpack: func() ISerializer {
			return &MsgpackSerializer{}
		},
		constants.FormatCBOR: func() ISerializer {
			return NewCBORSerializer()
		},
		constants.FormatYAML: func() ISerializer {
			return &YAMLSerializer{}
		},
	}
}

// NewSerializerRegistry creates a new serializer registry with default serializers pre-registered.
func NewSerializerRegistry() *Registry {
	registry := NewEmptySerializerRegistry()
	for name, createFunc := range getDefaultSerializers() {
		registry.Register(name, createFunc)
	}

	return registry
}

// NewEmptySerializerRegistry creates a new serializer registry without default serializers.
// This is useful for testing or when you want to register only specific serializers.
func NewEmptySerializerRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]func() ISerializer),
	}
}

// Register registers a new serializer with the given name.
func (r *Registry) Register(serializerType string, createFunc func() ISerializer) {
	r.serializers[serializerType] = createFunc
}

// New returns a new serializer based on the serializerType.
func (r *Registry) New(serializerType string) (ISerializer, error) {
	if serializerType == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "serializerType")
	}

	createFunc, ok := r.serializers[serializerType]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrSerializerNotFound, serializerType)
	}

	return createFunc(), nil
}

// Decode unmarshals data with the serializer registered for format and
// normalizes the result into a map[string]any tree.
func (r *Registry) Decode(format string, data []byte) (map[string]any, error) {
	s, err := r.New(format)
	if err != nil {
		return nil, err
	}

	var raw any

	err = s.Unmarshal(data, &raw)
	if err != nil {
		return nil, err
	}

	tree, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, ewrap.Wrapf(sentinel.ErrMalformedRecord, "%s dump is not a mapping", format)
	}

	return tree, nil
}

// New returns a new serializer using a new registry instance with default serializers.
func New(serializerType string) (ISerializer, error) {
	registry := NewSerializerRegistry()

	return registry.New(serializerType)
}
