package message

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// payloadSchema infers the JSON Schema of each payload struct.
var payloadSchema = map[Kind]func(*jsonschema.ForOptions) (*jsonschema.Schema, error){
	HostHandshake:              jsonschema.For[HandshakePayload],
	HostTipUpdated:             jsonschema.For[TipUpdatedPayload],
	HostAccountStateUpdated:    jsonschema.For[AccountStateUpdatedPayload],
	HostNetworkChanged:         jsonschema.For[NetworkChangedPayload],
	HostThemeChanged:           jsonschema.For[ThemeChangedPayload],
	HostHideBalanceChanged:     jsonschema.For[HideBalanceChangedPayload],
	HostExplorerChanged:        jsonschema.For[ExplorerChangedPayload],
	HostSignResponse:           jsonschema.For[TxResponsePayload],
	HostSubmitResponse:         jsonschema.For[TxResponsePayload],
	HostSignAndSubmitResponse:  jsonschema.For[TxResponsePayload],
	ClientURLChanged:           jsonschema.For[URLChangedPayload],
	ClientSignRequest:          jsonschema.For[TxSignRequestPayload],
	ClientSubmitRequest:        jsonschema.For[TxSubmitRequestPayload],
	ClientSignAndSubmitRequest: jsonschema.For[TxSignAndSubmitRequestPayload],
}

// Schemas describes the payload of every discriminant the dialect allows in
// dir. Discriminants without a payload map to nil.
//
// The schemas document the protocol; they are not used to validate traffic.
func Schemas(d *Dialect, dir Direction) (map[Type]*jsonschema.Schema, error) {
	out := make(map[Type]*jsonschema.Schema)

	for _, t := range d.Types(dir) {
		kind, _ := d.Kind(dir, t)

		infer, ok := payloadSchema[kind]
		if !ok {
			out[t] = nil

			continue
		}

		schema, err := infer(nil)
		if err != nil {
			return nil, fmt.Errorf("schema for %s: %w", t, err)
		}

		out[t] = schema
	}

	return out, nil
}
