package wsframe

import (
	"encoding/json"
	"fmt"

	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

type frameKind string

const (
	kindWindow frameKind = "window"
	kindPort   frameKind = "port"
	kindClose  frameKind = "close"
)

// frame is one websocket text message.
type frame struct {
	Kind  frameKind `json:"kind"`
	Port  string    `json:"port,omitempty"`
	Ports []string  `json:"ports,omitempty"`
	Data  any       `json:"data,omitempty"`
}

// encodeFrame serializes f. Data that has no JSON form is reported the way
// a structured clone failure is.
func encodeFrame(f frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, &errors.DataCloneError{Err: err}
	}

	return b, nil
}

func decodeFrame(b []byte) (frame, error) {
	var f frame
	if err := json.Unmarshal(b, &f); err != nil {
		return frame{}, fmt.Errorf("decode frame: %w", err)
	}

	switch f.Kind {
	case kindWindow:
	case kindPort, kindClose:
		if f.Port == "" {
			return frame{}, fmt.Errorf("decode frame: %s frame without port", f.Kind)
		}
	default:
		return frame{}, fmt.Errorf("decode frame: unknown kind %q", f.Kind)
	}

	return f, nil
}
