package message

// Type is the wire discriminant of a message, e.g. "themeChanged".
type Type string

// Direction identifies which side of the frame boundary sends a message.
type Direction int

const (
	// HostToClient messages are sent by the embedding document.
	HostToClient Direction = iota
	// ClientToHost messages are sent by the embedded mini app.
	ClientToHost
)

func (d Direction) String() string {
	switch d {
	case HostToClient:
		return "host_to_client"
	case ClientToHost:
		return "client_to_host"
	default:
		return "unknown"
	}
}

// Kind is the dialect-independent identity of a message variant.
type Kind int

const (
	KindUnknown Kind = iota

	HostHandshake
	HostTipUpdated
	HostAccountStateUpdated
	HostNetworkChanged
	HostThemeChanged
	HostHideBalanceChanged
	HostExplorerChanged
	HostSignResponse
	HostSubmitResponse
	HostSignAndSubmitResponse

	ClientHandshake
	ClientURLChanged
	ClientSignRequest
	ClientSubmitRequest
	ClientSignAndSubmitRequest
)

// kindNames holds the unqualified wire name of every kind.
var kindNames = map[Kind]string{
	HostHandshake:              "handshake",
	HostTipUpdated:             "tipUpdated",
	HostAccountStateUpdated:    "accountStateUpdated",
	HostNetworkChanged:         "networkChanged",
	HostThemeChanged:           "themeChanged",
	HostHideBalanceChanged:     "hideBalanceChanged",
	HostExplorerChanged:        "explorerChanged",
	HostSignResponse:           "signResponse",
	HostSubmitResponse:         "submitResponse",
	HostSignAndSubmitResponse:  "signAndSubmitResponse",
	ClientHandshake:            "handshake",
	ClientURLChanged:           "urlChanged",
	ClientSignRequest:          "signRequest",
	ClientSubmitRequest:        "submitRequest",
	ClientSignAndSubmitRequest: "signAndSubmitRequest",
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return "unknown"
	}

	if k.Direction() == HostToClient {
		return "host." + name
	}

	return "client." + name
}

// Direction reports which side sends messages of this kind.
func (k Kind) Direction() Direction {
	if k >= ClientHandshake {
		return ClientToHost
	}

	return HostToClient
}

// newPayload returns a pointer to the zero payload of the kind, or nil when
// the kind carries no payload.
func (k Kind) newPayload() any {
	switch k {
	case HostHandshake:
		return &HandshakePayload{}
	case HostTipUpdated:
		return &TipUpdatedPayload{}
	case HostAccountStateUpdated:
		return &AccountStateUpdatedPayload{}
	case HostNetworkChanged:
		return &NetworkChangedPayload{}
	case HostThemeChanged:
		return &ThemeChangedPayload{}
	case HostHideBalanceChanged:
		return &HideBalanceChangedPayload{}
	case HostExplorerChanged:
		return &ExplorerChangedPayload{}
	case HostSignResponse, HostSubmitResponse, HostSignAndSubmitResponse:
		return &TxResponsePayload{}
	case ClientURLChanged:
		return &URLChangedPayload{}
	case ClientSignRequest:
		return &TxSignRequestPayload{}
	case ClientSubmitRequest:
		return &TxSubmitRequestPayload{}
	case ClientSignAndSubmitRequest:
		return &TxSignAndSubmitRequestPayload{}
	default:
		return nil
	}
}

// Message is a typed application message.
//
// After decoding, Payload holds a pointer to the payload struct of the
// message kind (for example *ThemeChangedPayload), or nil when the sender
// omitted it. On the sending side it is whatever value the caller supplied.
type Message struct {
	Type    Type   `json:"type"`
	Kind    Kind   `json:"-"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Network names a Cardano network.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkPreprod Network = "preprod"
	NetworkPreview Network = "preview"
)

// Theme is the host UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Explorer names a block explorer the host links to.
type Explorer string

const (
	ExplorerCardanoscan Explorer = "cardanoscan"
	ExplorerCexplorer   Explorer = "cexplorer"
	ExplorerAdastat     Explorer = "adastat"
)

// TxStatus is the outcome reported in a transaction response.
type TxStatus string

const (
	TxStatusSuccess TxStatus = "success"
	TxStatusError   TxStatus = "error"
)

// HandshakePayload is the host's initial state snapshot.
type HandshakePayload struct {
	Network      Network  `json:"network"`
	Theme        Theme    `json:"theme"`
	HideBalances bool     `json:"hideBalances"`
	Explorer     Explorer `json:"explorer"`
}

// TipUpdatedPayload is the latest chain tip as an opaque record.
type TipUpdatedPayload map[string]any

// AccountStateUpdatedPayload describes the connected wallet account.
type AccountStateUpdatedPayload struct {
	PaymentAddress string         `json:"paymentAddress"`
	StakingAddress *string        `json:"stakingAddress"`
	State          map[string]any `json:"state"`
	Delegation     map[string]any `json:"delegation"`
}

// NetworkChangedPayload announces a network switch.
type NetworkChangedPayload struct {
	Network Network `json:"network"`
}

// ThemeChangedPayload announces a theme switch.
type ThemeChangedPayload struct {
	Theme Theme `json:"theme"`
}

// HideBalanceChangedPayload toggles balance masking.
type HideBalanceChangedPayload struct {
	HideBalances bool `json:"hideBalances"`
}

// ExplorerChangedPayload announces a new preferred explorer.
type ExplorerChangedPayload struct {
	Explorer Explorer `json:"explorer"`
}

// TxResponsePayload answers a sign, submit or sign-and-submit request.
type TxResponsePayload struct {
	Status       TxStatus `json:"status"`
	SignedTxCbor string   `json:"signedTxCbor,omitempty"`
	TxHash       string   `json:"txHash,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}

// URLChangedPayload reports client-side navigation.
type URLChangedPayload struct {
	URL string `json:"url"`
}

// TxSignRequestPayload asks the host wallet to sign a transaction.
type TxSignRequestPayload struct {
	UnsignedTxCbor string `json:"unsignedTxCbor"`
}

// TxSubmitRequestPayload asks the host wallet to submit a signed transaction.
type TxSubmitRequestPayload struct {
	SignedTxCbor string `json:"signedTxCbor"`
}

// TxSignAndSubmitRequestPayload asks the host to sign and submit in one step.
type TxSignAndSubmitRequestPayload struct {
	UnsignedTxCbor string `json:"unsignedTxCbor"`
}
