package message

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

func TestIsRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{name: "keyed structure", raw: map[string]any{"type": "themeChanged"}, want: true},
		{name: "empty keyed structure", raw: map[string]any{}, want: true},
		{name: "nil", raw: nil, want: false},
		{name: "nil map", raw: map[string]any(nil), want: false},
		{name: "array", raw: []any{"themeChanged"}, want: false},
		{name: "string", raw: "themeChanged", want: false},
		{name: "number", raw: 42.0, want: false},
		{name: "bool", raw: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsRecord(tt.raw))
		})
	}
}

func TestParse_HostThemeChanged(t *testing.T) {
	msg, err := Parse(DialectFlat, HostToClient, map[string]any{
		"type":    "themeChanged",
		"payload": map[string]any{"theme": "dark"},
	})
	require.NoError(t, err)

	require.Equal(t, Type("themeChanged"), msg.Type)
	require.Equal(t, HostThemeChanged, msg.Kind)
	require.Empty(t, msg.ID)

	payload, ok := msg.Payload.(*ThemeChangedPayload)
	require.True(t, ok, "payload should be *ThemeChangedPayload, got %T", msg.Payload)
	require.Equal(t, ThemeDark, payload.Theme)
}

func TestParse_KeepsID(t *testing.T) {
	msg, err := Parse(DialectFlat, ClientToHost, map[string]any{
		"type":    "signRequest",
		"id":      "req-1",
		"payload": map[string]any{"unsignedTxCbor": "84a400"},
	})
	require.NoError(t, err)

	require.Equal(t, "req-1", msg.ID)
	require.Equal(t, &TxSignRequestPayload{UnsignedTxCbor: "84a400"}, msg.Payload)
}

func TestParse_OptionalPayload(t *testing.T) {
	msg, err := Parse(DialectFlat, HostToClient, map[string]any{"type": "tipUpdated"})
	require.NoError(t, err)

	require.Equal(t, HostTipUpdated, msg.Kind)
	require.Nil(t, msg.Payload)
}

func TestParse_ClientHandshakeIgnoresPayload(t *testing.T) {
	msg, err := Parse(DialectFlat, ClientToHost, map[string]any{
		"type":    "handshake",
		"payload": map[string]any{"unexpected": true},
	})
	require.NoError(t, err)

	require.Equal(t, ClientHandshake, msg.Kind)
	require.Nil(t, msg.Payload)
}

func TestParse_TipUpdatedRecord(t *testing.T) {
	msg, err := Parse(DialectFlat, HostToClient, map[string]any{
		"type":    "tipUpdated",
		"payload": map[string]any{"slot": 1234.0, "hash": "abcd"},
	})
	require.NoError(t, err)

	payload, ok := msg.Payload.(*TipUpdatedPayload)
	require.True(t, ok)
	require.Equal(t, "abcd", (*payload)["hash"])
}

func TestParse_AccountStateNullableFields(t *testing.T) {
	msg, err := Parse(DialectFlat, HostToClient, map[string]any{
		"type": "accountStateUpdated",
		"payload": map[string]any{
			"paymentAddress": "addr1",
			"stakingAddress": nil,
			"state":          nil,
			"delegation":     map[string]any{"pool": "pool1"},
		},
	})
	require.NoError(t, err)

	payload, ok := msg.Payload.(*AccountStateUpdatedPayload)
	require.True(t, ok)
	require.Equal(t, "addr1", payload.PaymentAddress)
	require.Nil(t, payload.StakingAddress)
	require.Nil(t, payload.State)
	require.Equal(t, "pool1", payload.Delegation["pool"])
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		dialect *Dialect
		dir     Direction
		raw     any
		wantErr error
	}{
		{
			name:    "not a record",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     []any{map[string]any{"type": "themeChanged"}},
			wantErr: errors.ErrMalformedMessage,
		},
		{
			name:    "primitive",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     "themeChanged",
			wantErr: errors.ErrMalformedMessage,
		},
		{
			name:    "missing type",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     map[string]any{"payload": map[string]any{}},
			wantErr: errors.ErrMalformedMessage,
		},
		{
			name:    "non-string type",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     map[string]any{"type": 7.0},
			wantErr: errors.ErrMalformedMessage,
		},
		{
			name:    "unknown discriminant",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     map[string]any{"type": "launchMissiles"},
			wantErr: errors.ErrUnknownMessageType,
		},
		{
			name:    "client type in host direction",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     map[string]any{"type": "urlChanged"},
			wantErr: errors.ErrUnknownMessageType,
		},
		{
			name:    "namespaced type under flat dialect",
			dialect: DialectFlat,
			dir:     HostToClient,
			raw:     map[string]any{"type": "host:themeChanged"},
			wantErr: errors.ErrUnknownMessageType,
		},
		{
			name:    "flat type under namespaced dialect",
			dialect: DialectNamespaced,
			dir:     HostToClient,
			raw:     map[string]any{"type": "themeChanged"},
			wantErr: errors.ErrUnknownMessageType,
		},
		{
			name:    "control message",
			dialect: DialectFlat,
			dir:     ClientToHost,
			raw:     map[string]any{ProtocolFlagKey: "requestChannel"},
			wantErr: errors.ErrMalformedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.dialect, tt.dir, tt.raw)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_PayloadShapeMismatch(t *testing.T) {
	raw := map[string]any{
		"type":    "themeChanged",
		"payload": []any{"dark"},
	}

	_, err := Parse(DialectFlat, HostToClient, raw)
	require.Error(t, err)

	parseErr, ok := stderrors.AsType[*errors.MessageParseError](err)
	require.True(t, ok)
	require.Equal(t, raw, parseErr.Data)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		dialect *Dialect
		dir     Direction
		msg     Message
		wantErr error
	}{
		{name: "pointer payload", dialect: DialectFlat, dir: HostToClient,
			msg: Message{Type: "themeChanged", Payload: &ThemeChangedPayload{Theme: ThemeDark}}},
		{name: "value payload", dialect: DialectFlat, dir: HostToClient,
			msg: Message{Type: "themeChanged", Payload: ThemeChangedPayload{Theme: ThemeDark}}},
		{name: "nil payload", dialect: DialectFlat, dir: ClientToHost,
			msg: Message{Type: "urlChanged"}},
		{name: "record payload", dialect: DialectFlat, dir: HostToClient,
			msg: Message{Type: "tipUpdated", Payload: TipUpdatedPayload{"slot": 1.0}}},
		{name: "shared response payload", dialect: DialectNamespaced, dir: HostToClient,
			msg: Message{Type: "host:submitResponse", Payload: &TxResponsePayload{Status: TxStatusError}}},
		{name: "other variant", dialect: DialectFlat, dir: HostToClient,
			msg:     Message{Type: "themeChanged", Payload: &NetworkChangedPayload{Network: NetworkMainnet}},
			wantErr: errors.ErrMalformedMessage},
		{name: "plain map", dialect: DialectFlat, dir: ClientToHost,
			msg:     Message{Type: "signRequest", Payload: map[string]any{"unsignedTxCbor": "84"}},
			wantErr: errors.ErrMalformedMessage},
		{name: "payload on handshake", dialect: DialectFlat, dir: ClientToHost,
			msg:     Message{Type: "handshake", Payload: &URLChangedPayload{}},
			wantErr: errors.ErrMalformedMessage},
		{name: "wrong direction", dialect: DialectFlat, dir: ClientToHost,
			msg:     Message{Type: "themeChanged"},
			wantErr: errors.ErrUnknownMessageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.dialect, tt.dir, tt.msg)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 100)

	for range 100 {
		id := NewID()
		require.Len(t, id, 26)

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)

		seen[id] = struct{}{}
	}
}
