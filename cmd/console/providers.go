package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-console/internal/config"
	"github.com/tair/inventory-console/internal/console"
	httpDelivery "github.com/tair/inventory-console/internal/console/delivery/http"
	"github.com/tair/inventory-console/internal/item/client"
	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/search"
	"github.com/tair/inventory-console/internal/item/usecase/command"
	"github.com/tair/inventory-console/internal/item/usecase/query"
)

// Console bundles everything the HTTP server needs
type Console struct {
	Controller *console.Controller
	Handler    *httpDelivery.ConsoleHandler
	Health     *httpDelivery.HealthChecker
	Client     *client.ItemServiceClient
}

// ProvideItemServiceClient provides the REST client for the item service
func ProvideItemServiceClient(cfg *config.ConsoleConfig, reg prometheus.Registerer) (*client.ItemServiceClient, error) {
	return client.NewItemServiceClient(client.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Timeout:    cfg.Upstream.Timeout,
		Registerer: reg,
	})
}

// ProvideMatcher provides the fuzzy matcher with the configured threshold
func ProvideMatcher(cfg *config.ConsoleConfig) *search.Matcher {
	return search.NewMatcher(cfg.SearchThreshold, search.DefaultDistance)
}

func ProvideDefaultRole(cfg *config.ConsoleConfig) domain.Role {
	return cfg.DefaultRole
}

// ProvideHealthChecker provides the health checker probing the item service
func ProvideHealthChecker(cfg *config.ConsoleConfig, c *client.ItemServiceClient) *httpDelivery.HealthChecker {
	return httpDelivery.NewHealthChecker(cfg.ServiceName, c)
}

// Wire sets
var ClientSet = wire.NewSet(
	ProvideItemServiceClient,
	wire.Bind(new(domain.ItemStore), new(*client.ItemServiceClient)),
)

var UsecaseSet = wire.NewSet(
	ProvideMatcher,
	query.NewListItemsHandler,
	query.NewSearchItemsHandler,
	command.NewCreateItemHandler,
	command.NewDeleteItemHandler,
)

var DeliverySet = wire.NewSet(
	ProvideDefaultRole,
	console.NewController,
	httpDelivery.NewConsoleHandler,
	ProvideHealthChecker,
	wire.Struct(new(Console), "*"),
)
