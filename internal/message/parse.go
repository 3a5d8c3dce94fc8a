package message

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

// AsRecord returns raw as a keyed structure. Arrays, primitives and nil are
// rejected before any field is read.
func AsRecord(raw any) (map[string]any, bool) {
	rec, ok := raw.(map[string]any)
	if !ok || rec == nil {
		return nil, false
	}

	return rec, true
}

// IsRecord reports whether raw is a non-nil keyed structure.
func IsRecord(raw any) bool {
	_, ok := AsRecord(raw)

	return ok
}

// Parse decodes raw boundary data sent in direction dir into a typed Message.
//
// Data that is not a keyed structure or has no string "type" field returns
// ErrMalformedMessage. A discriminant outside the dialect's allow-list returns
// ErrUnknownMessageType. A payload that does not decode into the variant's
// payload struct returns *errors.MessageParseError. Callers at the boundary
// drop all of these silently.
func Parse(d *Dialect, dir Direction, raw any) (Message, error) {
	rec, ok := AsRecord(raw)
	if !ok {
		return Message{}, errors.ErrMalformedMessage
	}

	msgType, ok := rec["type"].(string)
	if !ok {
		return Message{}, errors.ErrMalformedMessage
	}

	kind, ok := d.Kind(dir, Type(msgType))
	if !ok {
		return Message{}, errors.ErrUnknownMessageType
	}

	msg := Message{
		Type: Type(msgType),
		Kind: kind,
	}

	if id, ok := rec["id"].(string); ok {
		msg.ID = id
	}

	payload, err := decodePayload(kind, rec["payload"])
	if err != nil {
		return Message{}, &errors.MessageParseError{
			Message: err.Error(),
			Err:     err,
			Data:    rec,
		}
	}

	msg.Payload = payload

	return msg, nil
}

// decodePayload converts a raw payload into the kind's payload struct.
// The raw value is marshalled back to JSON and decoded into the target type.
func decodePayload(kind Kind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	target := kind.newPayload()
	if target == nil {
		return nil, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%s payload: marshal: %w", kind, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("%s payload: %w", kind, err)
	}

	return target, nil
}

// Validate checks an outbound message sent in direction dir. The type must be
// in the dialect's allow-list for dir, returning ErrUnknownMessageType
// otherwise. The payload must be nil or the payload struct of that type, by
// value or by pointer, returning ErrMalformedMessage otherwise.
func Validate(d *Dialect, dir Direction, msg Message) error {
	kind, ok := d.Kind(dir, msg.Type)
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownMessageType, msg.Type)
	}

	if !kind.Accepts(msg.Payload) {
		return fmt.Errorf("%w: %T is not a %s payload", errors.ErrMalformedMessage, msg.Payload, msg.Type)
	}

	return nil
}

// Accepts reports whether payload may travel as the payload of kind k.
func (k Kind) Accepts(payload any) bool {
	if payload == nil {
		return true
	}

	want := k.newPayload()
	if want == nil {
		return false
	}

	ptr := reflect.TypeOf(want)
	got := reflect.TypeOf(payload)

	return got == ptr || got == ptr.Elem()
}

// NewID returns a fresh correlation id for the optional message id field.
func NewID() string {
	return ulid.Make().String()
}
