//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/inventory-console/internal/config"
	"github.com/tair/inventory-console/internal/notify"
)

// InitializeConsole initializes the console with all dependencies
func InitializeConsole(cfg *config.ConsoleConfig, reg prometheus.Registerer, hub *notify.Hub) (*Console, error) {
	wire.Build(
		ClientSet,
		UsecaseSet,
		DeliverySet,
	)
	return nil, nil
}
