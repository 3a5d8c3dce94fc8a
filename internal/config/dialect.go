package config

import "github.com/wagiedev/miniapp-sdk-go/internal/message"

// NormalizeDialectName maps legacy protocol version names to dialect names.
//
// Legacy mappings:
//   - "v1", "legacy" -> "flat"
//   - "v2", "host:client" -> "namespaced"
func NormalizeDialectName(name string) string {
	switch name {
	case "v1", "legacy":
		return "flat"
	case "v2", "host:client":
		return "namespaced"
	default:
		return name
	}
}

// ResolveDialect returns the dialect for name, accepting legacy aliases.
// An empty name selects message.DialectFlat. Unknown names return nil.
func ResolveDialect(name string) *message.Dialect {
	if name == "" {
		return message.DialectFlat
	}

	return message.Lookup(NormalizeDialectName(name))
}
