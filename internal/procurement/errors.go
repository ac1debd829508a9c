package procurement

import (
	"context"
	"errors"
	"net/http"

	"github.com/me/narabid/internal/g2b"
	"github.com/me/narabid/pkg/model"
)

// Classify maps a Search error to an HTTP status and a wire error.
func Classify(err error) (int, *model.APIError) {
	var upErr *g2b.UpstreamError
	switch {
	case errors.Is(err, g2b.ErrMissingCredential):
		return http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrConfig,
			Message: "upstream service key is not configured",
		}
	case errors.Is(err, g2b.ErrInvalidKind):
		return http.StatusBadRequest, model.NewValidationError("invalid kind",
			model.FieldError{Field: "kind", Message: "must be one of bid, award, contract"})
	case errors.As(err, &upErr):
		detail := upErr.Body
		if detail == "" && upErr.Err != nil {
			detail = upErr.Err.Error()
		}
		return http.StatusBadGateway, model.NewUpstreamError(upErr.Error(), detail, upErr.URL)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, model.NewUpstreamError("upstream request timed out", "", "")
	default:
		return http.StatusInternalServerError, &model.APIError{
			Code:    model.ErrInternal,
			Message: "internal error",
		}
	}
}
