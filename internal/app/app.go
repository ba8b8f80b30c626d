package app

import (
	"go.uber.org/fx"

	"github.com/pawmart/orderledger/internal/cache"
	"github.com/pawmart/orderledger/internal/config"
	"github.com/pawmart/orderledger/internal/database"
	"github.com/pawmart/orderledger/internal/logger"
	"github.com/pawmart/orderledger/internal/messaging"
	"github.com/pawmart/orderledger/internal/observability"
	repositorycancelled "github.com/pawmart/orderledger/internal/repository/cancelled"
	repositoryorder "github.com/pawmart/orderledger/internal/repository/order"
	repositoryreceipt "github.com/pawmart/orderledger/internal/repository/receipt"
	httpserver "github.com/pawmart/orderledger/internal/server/http"
	serviceorder "github.com/pawmart/orderledger/internal/service/order"
	servicereport "github.com/pawmart/orderledger/internal/service/report"
	transporthttp "github.com/pawmart/orderledger/internal/transport/http"
	"github.com/pawmart/orderledger/internal/worker"
	workerorder "github.com/pawmart/orderledger/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	repositoryreceipt.Module,
	repositorycancelled.Module,
	serviceorder.Module,
	servicereport.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background lifecycle-event processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
