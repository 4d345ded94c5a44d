package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the Inventory Console
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListItems godoc
// @Summary List items
// @Description Filtered view of the last fetched snapshot. Answers 304 when If-None-Match matches the ETag.
// @Tags Items
// @Produce json
// @Param q query string false "Fuzzy search query"
// @Success 200 {object} object{success=bool,data=array}
// @Success 304 "Not modified"
// @Router /console/api/items [get]
func (h *ConsoleHandler) ListItemsDoc() {}

// CreateItem godoc
// @Summary Add an item
// @Description Apply the draft and submit it to the item service
// @Tags Items
// @Accept json
// @Produce json
// @Param request body object{name=string,quantity=string,category=string,status=string} true "Draft"
// @Success 201 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string,data=object}
// @Failure 502 {object} object{success=bool,error=string,data=object}
// @Router /console/api/items [post]
func (h *ConsoleHandler) CreateItemDoc() {}

// DeleteItem godoc
// @Summary Delete an item
// @Description Delete the item remotely and refresh. A failed delete is not reported.
// @Tags Items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /console/api/items/{id} [delete]
func (h *ConsoleHandler) DeleteItemDoc() {}

// GetState godoc
// @Summary Console state
// @Description Role, query, filtered items, draft and form errors
// @Tags Console
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /console/api/state [get]
func (h *ConsoleHandler) GetStateDoc() {}

// ValidateDraft godoc
// @Summary Validate a draft
// @Description Field errors and suggested status for a draft, without side effects
// @Tags Console
// @Accept json
// @Produce json
// @Param request body object{name=string,quantity=string,category=string,status=string} true "Draft"
// @Success 200 {object} object{success=bool,data=object{errors=object,suggested_status=string}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /console/api/validate [post]
func (h *ConsoleHandler) ValidateDraftDoc() {}

// SetRole godoc
// @Summary Switch display role
// @Description Switch between admin and viewer. Display only, not access control.
// @Tags Console
// @Accept json
// @Produce json
// @Param request body object{role=string} true "Role"
// @Success 200 {object} object{success=bool,message=string,data=object{role=string}}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /console/api/role [put]
func (h *ConsoleHandler) SetRoleDoc() {}

// Stream godoc
// @Summary Snapshot change stream
// @Description Server-sent events, one "snapshot" event per refresh
// @Tags Console
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /console/api/stream [get]
func (h *ConsoleHandler) StreamDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check console health and item service reachability
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 503 {object} object{success=bool,error=string,data=object}
// @Router /health [get]
func (h *HealthChecker) HealthCheckDoc() {}
