package order

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	"github.com/farmconnect/harvest/internal/auth"
)

// Module wires HTTP order handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(func(api *echo.Group, h *Handler, tokens *auth.TokenManager) {
		Register(api, h, tokens)
	}),
)
