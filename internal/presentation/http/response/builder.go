package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/harvest/pkg/errorbank"
)

// Builder helps construct consistent HTTP responses.
type Builder struct {
	ctx     echo.Context
	status  int
	message string
	data    any
	count   *int
	err     error
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithMessage sets the human-readable message on a success payload.
func (b *Builder) WithMessage(message string) *Builder {
	b.message = message
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

// WithCount reports the result set size on listing responses.
func (b *Builder) WithCount(count int) *Builder {
	b.count = &count
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.buildError()
	}
	return b.buildSuccess()
}

func (b *Builder) buildSuccess() error {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	payload := struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
		Data    any    `json:"data,omitempty"`
		Count   *int   `json:"count,omitempty"`
	}{
		Success: true,
		Message: b.message,
		Data:    b.data,
		Count:   b.count,
	}
	return b.ctx.JSON(b.status, payload)
}

// buildError renders the failure envelope. Only the AppError message is
// exposed; underlying causes stay in the server logs.
func (b *Builder) buildError() error {
	appErr := errorbank.From(b.err)
	status := b.status
	if status < 400 {
		status = appErr.StatusCode()
	}
	payload := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Error   struct {
			Kind    string         `json:"kind"`
			Details map[string]any `json:"details,omitempty"`
		} `json:"error"`
	}{
		Success: false,
		Message: appErr.Message(),
	}
	payload.Error.Kind = string(appErr.Kind())
	payload.Error.Details = appErr.Details()

	return b.ctx.JSON(status, payload)
}
