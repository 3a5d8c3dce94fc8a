package miniapp

import "github.com/wagiedev/miniapp-sdk-go/internal/message"

// Re-export message types from internal package

// Message is a typed application message.
type Message = message.Message

// Type is a wire discriminant such as "themeChanged".
type Type = message.Type

// Kind is the dialect-independent identity of a message variant.
type Kind = message.Kind

// Direction identifies which side of the boundary sends a message.
type Direction = message.Direction

// Dialect is one concrete version of the wire protocol.
type Dialect = message.Dialect

// Message directions.
const (
	HostToClient = message.HostToClient
	ClientToHost = message.ClientToHost
)

// Message kinds.
const (
	HostHandshake             = message.HostHandshake
	HostTipUpdated            = message.HostTipUpdated
	HostAccountStateUpdated   = message.HostAccountStateUpdated
	HostNetworkChanged        = message.HostNetworkChanged
	HostThemeChanged          = message.HostThemeChanged
	HostHideBalanceChanged    = message.HostHideBalanceChanged
	HostExplorerChanged       = message.HostExplorerChanged
	HostSignResponse          = message.HostSignResponse
	HostSubmitResponse        = message.HostSubmitResponse
	HostSignAndSubmitResponse = message.HostSignAndSubmitResponse

	ClientHandshake            = message.ClientHandshake
	ClientURLChanged           = message.ClientURLChanged
	ClientSignRequest          = message.ClientSignRequest
	ClientSubmitRequest        = message.ClientSubmitRequest
	ClientSignAndSubmitRequest = message.ClientSignAndSubmitRequest
)

// Wire dialects.
var (
	// DialectFlat uses flat discriminants and does not echo the handshake.
	DialectFlat = message.DialectFlat

	// DialectNamespaced uses host:/client: discriminants and echoes the
	// handshake.
	DialectNamespaced = message.DialectNamespaced
)

// ProtocolFlagKey marks boundary-level control messages.
const ProtocolFlagKey = message.ProtocolFlagKey

// Payload enums.
type (
	Network  = message.Network
	Theme    = message.Theme
	Explorer = message.Explorer
	TxStatus = message.TxStatus
)

const (
	NetworkMainnet = message.NetworkMainnet
	NetworkPreprod = message.NetworkPreprod
	NetworkPreview = message.NetworkPreview

	ThemeLight = message.ThemeLight
	ThemeDark  = message.ThemeDark

	ExplorerCardanoscan = message.ExplorerCardanoscan
	ExplorerCexplorer   = message.ExplorerCexplorer
	ExplorerAdastat     = message.ExplorerAdastat

	TxStatusSuccess = message.TxStatusSuccess
	TxStatusError   = message.TxStatusError
)

// Payload types.
type (
	HandshakePayload              = message.HandshakePayload
	TipUpdatedPayload             = message.TipUpdatedPayload
	AccountStateUpdatedPayload    = message.AccountStateUpdatedPayload
	NetworkChangedPayload         = message.NetworkChangedPayload
	ThemeChangedPayload           = message.ThemeChangedPayload
	HideBalanceChangedPayload     = message.HideBalanceChangedPayload
	ExplorerChangedPayload        = message.ExplorerChangedPayload
	TxResponsePayload             = message.TxResponsePayload
	URLChangedPayload             = message.URLChangedPayload
	TxSignRequestPayload          = message.TxSignRequestPayload
	TxSubmitRequestPayload        = message.TxSubmitRequestPayload
	TxSignAndSubmitRequestPayload = message.TxSignAndSubmitRequestPayload
)

// ParseMessage decodes raw boundary data sent in direction dir.
func ParseMessage(d *Dialect, dir Direction, raw any) (Message, error) {
	return message.Parse(d, dir, raw)
}

// IsRecord reports whether raw is a non-nil keyed structure, the only shape
// accepted at the boundary.
func IsRecord(raw any) bool {
	return message.IsRecord(raw)
}

// NewID returns a fresh correlation id for Message.ID.
func NewID() string {
	return message.NewID()
}
