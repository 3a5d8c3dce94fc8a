package message

// ProtocolFlagKey marks boundary-level control messages.
const ProtocolFlagKey = "__miniAppSdk"

// Dialect is one concrete version of the wire protocol: how discriminants are
// spelled, which control actions are used and whether the host answers the
// client handshake.
//
// Dialects are immutable. Use DialectFlat or DialectNamespaced.
type Dialect struct {
	name           string
	requestAction  string
	transferAction string
	echoHandshake  bool

	types  map[Kind]Type
	host   map[Type]Kind
	client map[Type]Kind
}

var (
	// DialectFlat spells discriminants without a namespace ("themeChanged")
	// and uses the requestChannel / channelTransferred control actions. The
	// host does not answer the client handshake.
	DialectFlat = newDialect("flat", "requestChannel", "channelTransferred", "", "", false)

	// DialectNamespaced prefixes discriminants with their sender
	// ("host:themeChanged", "client:urlChanged") and uses the requestPort /
	// transferPort control actions. The host answers the client handshake
	// with host:handshake.
	DialectNamespaced = newDialect("namespaced", "requestPort", "transferPort", "host:", "client:", true)
)

func newDialect(name, request, transfer, hostPrefix, clientPrefix string, echo bool) *Dialect {
	d := &Dialect{
		name:           name,
		requestAction:  request,
		transferAction: transfer,
		echoHandshake:  echo,
		types:          make(map[Kind]Type, len(kindNames)),
		host:           make(map[Type]Kind, len(kindNames)),
		client:         make(map[Type]Kind, len(kindNames)),
	}

	for kind, base := range kindNames {
		if kind == HostHandshake && !echo {
			continue
		}

		if kind.Direction() == HostToClient {
			t := Type(hostPrefix + base)
			d.types[kind] = t
			d.host[t] = kind

			continue
		}

		t := Type(clientPrefix + base)
		d.types[kind] = t
		d.client[t] = kind
	}

	return d
}

// Lookup returns a dialect by name, or nil.
func Lookup(name string) *Dialect {
	switch name {
	case DialectFlat.name:
		return DialectFlat
	case DialectNamespaced.name:
		return DialectNamespaced
	default:
		return nil
	}
}

// Name returns the dialect name ("flat" or "namespaced").
func (d *Dialect) Name() string { return d.name }

// RequestAction is the control action the client posts to ask for a channel.
func (d *Dialect) RequestAction() string { return d.requestAction }

// TransferAction is the control action the host posts alongside a port.
func (d *Dialect) TransferAction() string { return d.transferAction }

// EchoesHandshake reports whether the host answers the client handshake.
func (d *Dialect) EchoesHandshake() bool { return d.echoHandshake }

// Type returns the wire discriminant of kind, or "" when the dialect does not
// define it.
func (d *Dialect) Type(kind Kind) Type {
	return d.types[kind]
}

// Kind resolves a wire discriminant sent in the given direction.
func (d *Dialect) Kind(dir Direction, t Type) (Kind, bool) {
	switch dir {
	case HostToClient:
		kind, ok := d.host[t]

		return kind, ok
	case ClientToHost:
		kind, ok := d.client[t]

		return kind, ok
	default:
		return KindUnknown, false
	}
}

// Allowed reports whether t is a recognized discriminant for dir.
func (d *Dialect) Allowed(dir Direction, t Type) bool {
	_, ok := d.Kind(dir, t)

	return ok
}

// Types returns every discriminant allowed in dir.
func (d *Dialect) Types(dir Direction) []Type {
	var out []Type

	for kind := HostHandshake; kind <= ClientSignAndSubmitRequest; kind++ {
		if kind.Direction() != dir {
			continue
		}

		if t, ok := d.types[kind]; ok {
			out = append(out, t)
		}
	}

	return out
}

// Control builds a boundary-level control message for action.
func (d *Dialect) Control(action string) map[string]any {
	return map[string]any{ProtocolFlagKey: action}
}

// IsControl reports whether raw is a control message carrying action.
func (d *Dialect) IsControl(raw any, action string) bool {
	rec, ok := AsRecord(raw)
	if !ok {
		return false
	}

	got, ok := rec[ProtocolFlagKey].(string)

	return ok && got == action
}

func (d *Dialect) String() string { return d.name }
