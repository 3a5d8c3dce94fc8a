package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemas_ClientDirection(t *testing.T) {
	schemas, err := Schemas(DialectFlat, ClientToHost)
	require.NoError(t, err)

	require.Len(t, schemas, 5)

	handshake, ok := schemas["handshake"]
	require.True(t, ok)
	require.Nil(t, handshake)

	sign := schemas["signRequest"]
	require.NotNil(t, sign)
	require.Equal(t, "object", sign.Type)
	require.Contains(t, sign.Properties, "unsignedTxCbor")
}

func TestSchemas_HostDirection(t *testing.T) {
	schemas, err := Schemas(DialectNamespaced, HostToClient)
	require.NoError(t, err)

	require.Len(t, schemas, 10)
	require.NotNil(t, schemas["host:handshake"])
	require.Contains(t, schemas["host:themeChanged"].Properties, "theme")
}
