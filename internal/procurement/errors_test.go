package procurement

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"missing key", fmt.Errorf("fetch bid: %w", g2b.ErrMissingCredential), http.StatusInternalServerError, model.ErrConfig},
		{"invalid kind", fmt.Errorf("build: %w", g2b.ErrInvalidKind), http.StatusBadRequest, model.ErrValidation},
		{"upstream http", fmt.Errorf("fetch bid: %w", &g2b.UpstreamError{Status: 503, URL: "u", Body: "down"}), http.StatusBadGateway, model.ErrUpstream},
		{"deadline", context.DeadlineExceeded, http.StatusBadGateway, model.ErrUpstream},
		{"internal", fmt.Errorf("%w: boom", ErrInternal), http.StatusInternalServerError, model.ErrInternal},
		{"other", errors.New("x"), http.StatusInternalServerError, model.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestClassify_UpstreamDetail(t *testing.T) {
	transport := &g2b.UpstreamError{
		Status: g2b.StatusTransportFailure,
		URL:    "https://h/p?ServiceKey=REDACTED",
		Err:    errors.New("connection refused"),
	}
	_, apiErr := Classify(transport)
	assert.Equal(t, "connection refused", apiErr.Detail)
	assert.Equal(t, "https://h/p?ServiceKey=REDACTED", apiErr.UpstreamURL)

	format := &g2b.UpstreamError{Status: 200, URL: "u", Body: "<html>", Format: true, Err: errors.New("invalid character")}
	_, apiErr = Classify(format)
	assert.Equal(t, "<html>", apiErr.Detail)
	assert.Contains(t, apiErr.Message, "non-JSON")
}
