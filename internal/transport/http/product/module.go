package product

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/farmconnect/harvest/internal/auth"
)

// Module wires HTTP product handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(api *echo.Group, h *Handler, tokens *auth.TokenManager) {
		Register(api, h, tokens)
	}),
)
