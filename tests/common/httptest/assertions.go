//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"bookstore-backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

type errorEnvelope struct {
	Error struct {
		Kind    errs.Kind `json:"kind"`
		Message string    `json:"message"`
	} `json:"error"`
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if expectedStatus >= 200 && expectedStatus < 300 && target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "decode body: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status and, when given, a message fragment.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) {
	t.Helper()

	env := decodeError(t, w, expectedStatus)
	if expectedMsg != "" {
		assert.Contains(t, env.Error.Message, expectedMsg)
	}
}

// AssertErrorKind checks the status and the kind tag of the envelope.
func AssertErrorKind(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedKind errs.Kind) {
	t.Helper()

	env := decodeError(t, w, expectedStatus)
	assert.Equal(t, expectedKind, env.Error.Kind, "body: %s", w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) errorEnvelope {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var env errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "decode error body: %s", w.Body.String())
	return env
}
