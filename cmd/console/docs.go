package main

// @title Inventory Console API
// @version 1.0
// @description JSON API of the inventory console with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-console

// @license.name MIT

// @host localhost:8090
// @BasePath /

// @tag.name Items
// @tag.description Console item endpoints

// @tag.name Console
// @tag.description Console state endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
