// internal/api/respond.go
package api

import (
	stderrors "errors"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	apperrors "roi-navigator/internal/common/errors"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	writeJSON(ctx, status, successEnvelope{Success: true, Data: data})
}

// respondError maps an application error to its HTTP status. Internal
// failure details are logged upstream, not exposed.
func respondError(ctx *fasthttp.RequestCtx, err error) {
	status := apperrors.HTTPStatus(err)

	message := "Internal server error"
	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) && status < fasthttp.StatusInternalServerError {
		message = stdErr.Message
		if stdErr.Code == apperrors.ErrCodeValidationFailed && stdErr.Details != "" {
			message = stdErr.Message + ": " + stdErr.Details
		}
	}

	writeJSON(ctx, status, errorEnvelope{Success: false, Error: message})
}

func respondErrorMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorEnvelope{Success: false, Error: message})
}

func respondNotFound(ctx *fasthttp.RequestCtx) {
	respondErrorMessage(ctx, fasthttp.StatusNotFound, "Not found")
}

func respondMethodNotAllowed(ctx *fasthttp.RequestCtx) {
	respondErrorMessage(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"success":false,"error":"Internal server error"}`)
		return
	}

	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(payload)
}
