package repair

import (
	"encoding/json"
	"errors"
)

// ErrorInfo describes a strict-parse failure: a human-readable message
// and, when the decoder reports one, the byte offset of the error.
type ErrorInfo struct {
	Message string
	Offset  int // -1 when the decoder gave no position
}

// tryStrictParse attempts a standard, spec-compliant JSON decode of text.
// No repair logic lives here; it is a pass-through to encoding/json that
// converts the decoder's error into an ErrorInfo value.
func tryStrictParse(text string) (any, *ErrorInfo) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		info := &ErrorInfo{Message: err.Error(), Offset: -1}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			info.Offset = int(syntaxErr.Offset)
		}
		return nil, info
	}
	return value, nil
}
