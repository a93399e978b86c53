package http

import (
	"go.uber.org/fx"

	authtransport "github.com/farmconnect/harvest/internal/transport/http/auth"
	farmertransport "github.com/farmconnect/harvest/internal/transport/http/farmer"
	ordertransport "github.com/farmconnect/harvest/internal/transport/http/order"
	producttransport "github.com/farmconnect/harvest/internal/transport/http/product"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	authtransport.Module,
	producttransport.Module,
	ordertransport.Module,
	farmertransport.Module,
)
