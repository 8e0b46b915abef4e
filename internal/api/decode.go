package api

import (
	"encoding/json"

	"github.com/chatzone/chatsync/internal/apperr"
)

// unwrap handles the authority's inconsistent body convention: a payload
// may arrive bare, or wrapped under "data", or under a type-named key
// ("channel", "message", "user"). The fallback chain tries the wrappers
// in order and settles on the bare body last.
func unwrap(raw json.RawMessage, keys ...string) json.RawMessage {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}
	for _, k := range append([]string{"data"}, keys...) {
		if inner, ok := envelope[k]; ok && len(inner) > 0 && string(inner) != "null" {
			return inner
		}
	}
	return raw
}

// decodeInto unwraps and unmarshals, reporting InvalidResponse when no
// shape in the chain fits.
func decodeInto(raw json.RawMessage, out any, keys ...string) error {
	inner := unwrap(raw, keys...)
	if err := json.Unmarshal(inner, out); err != nil {
		if string(inner) != string(raw) {
			// alternate field path: retry against the bare body
			if err2 := json.Unmarshal(raw, out); err2 == nil {
				return nil
			}
		}
		return apperr.Wrap(apperr.CodeInvalidResponse, "unexpected response shape", err)
	}
	return nil
}
