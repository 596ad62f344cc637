// Lookalike - Product Similarity Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lookalike

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/lookalike/internal/logging"
	"github.com/tomtom215/lookalike/internal/recommend"
)

// writeError maps ranking errors onto the response envelope. Unknown
// products are 404, caller mistakes are 400 and anything unexpected is a 500
// whose cause is logged but not returned.
func writeError(rw *ResponseWriter, r *http.Request, err error) {
	var unknown *recommend.UnknownProductError
	switch {
	case errors.As(err, &unknown):
		rw.NotFound(err.Error(), map[string]any{"product_id": unknown.ID})
	case errors.Is(err, recommend.ErrContractViolation):
		rw.BadRequest(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "recommendation timed out")
	case errors.Is(err, context.Canceled):
		// The client went away; nobody will read this.
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		rw.InternalError("internal error")
	}
}
