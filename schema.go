package miniapp

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// Schemas returns a JSON Schema for the payload of every discriminant d
// allows in dir. Discriminants without a payload map to nil. The schemas are
// documentation; traffic is not validated against them.
func Schemas(d *Dialect, dir Direction) (map[Type]*jsonschema.Schema, error) {
	return message.Schemas(d, dir)
}
