package app

import (
	"go.uber.org/fx"

	"github.com/farmconnect/harvest/internal/auth"
	"github.com/farmconnect/harvest/internal/cache"
	"github.com/farmconnect/harvest/internal/config"
	"github.com/farmconnect/harvest/internal/database"
	"github.com/farmconnect/harvest/internal/logger"
	"github.com/farmconnect/harvest/internal/messaging"
	"github.com/farmconnect/harvest/internal/observability"
	repositoryorder "github.com/farmconnect/harvest/internal/repository/order"
	repositoryproduct "github.com/farmconnect/harvest/internal/repository/product"
	repositoryuser "github.com/farmconnect/harvest/internal/repository/user"
	grpcserver "github.com/farmconnect/harvest/internal/server/grpc"
	httpserver "github.com/farmconnect/harvest/internal/server/http"
	servicefarmer "github.com/farmconnect/harvest/internal/service/farmer"
	serviceorder "github.com/farmconnect/harvest/internal/service/order"
	serviceproduct "github.com/farmconnect/harvest/internal/service/product"
	serviceuser "github.com/farmconnect/harvest/internal/service/user"
	transporthttp "github.com/farmconnect/harvest/internal/transport/http"
	"github.com/farmconnect/harvest/internal/worker"
	workerorder "github.com/farmconnect/harvest/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	auth.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryuser.Module,
	repositoryproduct.Module,
	repositoryorder.Module,
	serviceuser.Module,
	serviceproduct.Module,
	serviceorder.Module,
	servicefarmer.Module,
)

// HTTP wires the HTTP and gRPC transports on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (serving stack).
var Module = HTTP
