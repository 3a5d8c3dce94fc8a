package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/jsonschema-go/jsonschema"

	miniapp "github.com/wagiedev/miniapp-sdk-go"
)

type schemaDoc struct {
	Dialect      string                              `json:"dialect"`
	HostToClient map[miniapp.Type]*jsonschema.Schema `json:"hostToClient"`
	ClientToHost map[miniapp.Type]*jsonschema.Schema `json:"clientToHost"`
}

// runSchema writes the payload schemas of the configured dialect as JSON.
func runSchema(cfg bridgeConfig, w io.Writer) error {
	host, err := miniapp.Schemas(cfg.Dialect, miniapp.HostToClient)
	if err != nil {
		return fmt.Errorf("host schemas: %w", err)
	}

	client, err := miniapp.Schemas(cfg.Dialect, miniapp.ClientToHost)
	if err != nil {
		return fmt.Errorf("client schemas: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(schemaDoc{
		Dialect:      cfg.Dialect.Name(),
		HostToClient: host,
		ClientToHost: client,
	})
}
