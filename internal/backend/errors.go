package backend

import (
	"encoding/json"
	"sort"
)

// GenericErrorMessage is shown when a backend failure carries no usable
// detail. Raw transport errors never reach the UI; they are logged and
// replaced with this.
const GenericErrorMessage = "An unexpected error occurred. Please try again later."

// APIError is a backend failure already translated into a user-facing
// message. StatusCode is zero for transport-level failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// translateErrorBody reduces a backend error body to its first
// human-readable message. Handled shapes: {"message": "..."},
// {"message": {field: [msgs...]}} and {field: [msgs...]}. Anything else
// falls back to the generic message.
func translateErrorBody(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil || len(doc) == 0 {
		return GenericErrorMessage
	}

	if raw, ok := doc["message"]; ok {
		switch msg := raw.(type) {
		case string:
			if msg != "" {
				return msg
			}
		case map[string]any:
			if s := firstMessage(msg); s != "" {
				return s
			}
		}
		return GenericErrorMessage
	}

	if s := firstMessage(doc); s != "" {
		return s
	}
	return GenericErrorMessage
}

// firstMessage walks a field->errors map in key order and returns the first
// string it finds, either bare or as the head of a list.
func firstMessage(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
