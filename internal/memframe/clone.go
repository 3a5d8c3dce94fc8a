package memframe

import (
	"encoding/json"

	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

// Clone returns a deep copy of v made of plain JSON values: map[string]any,
// []any, string, float64, bool and nil. Values that cannot be represented
// return *errors.DataCloneError.
func Clone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, &errors.DataCloneError{Err: err}
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &errors.DataCloneError{Err: err}
	}

	return out, nil
}
