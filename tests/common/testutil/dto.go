//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body after it has been flattened to JSON fields.
type Mutation func(body map[string]any)

// DtoMap flattens v into its JSON fields so tests can send bodies the typed
// DTO cannot express, then applies muts in order.
func DtoMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))

	for _, mutate := range muts {
		mutate(body)
	}
	return body
}

// Field sets key to value. A nil value drops the key so the field is absent
// rather than null.
func Field(key string, value any) Mutation {
	return func(body map[string]any) {
		if value == nil {
			delete(body, key)
			return
		}
		body[key] = value
	}
}

// Null sends key as an explicit JSON null.
func Null(key string) Mutation {
	return func(body map[string]any) {
		body[key] = nil
	}
}
