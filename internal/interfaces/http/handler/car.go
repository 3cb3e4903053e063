package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dealerdesk/backend/internal/application/dealership"
	"github.com/dealerdesk/backend/internal/interfaces/http/dto"
)

// CarHandler serves the car inventory endpoints
type CarHandler struct {
	BaseHandler
	service *dealership.CarService
}

// NewCarHandler creates a new CarHandler
func NewCarHandler(service *dealership.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers car routes on the API group
func (h *CarHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cars := rg.Group("/cars")
	{
		cars.POST("", h.Create)
		cars.GET("", h.ListAll)
		cars.GET("/lookup/:regnr", h.Lookup)
		cars.GET("/:id", h.Get)
		cars.PUT("/:id", h.Update)
		cars.DELETE("/:id", h.Delete)
	}
}

// Create adds a car to the inventory
func (h *CarHandler) Create(c *gin.Context) {
	var req dealership.CreateCarRequest
	if !h.bindJSON(c, &req) {
		return
	}

	car, err := h.service.CreateCar(c.Request.Context(), h.companyID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, car)
}

// ListAll lists cars with optional status filtering
func (h *CarHandler) ListAll(c *gin.Context) {
	var listReq dto.ListRequest
	if !h.bindListQuery(c, &listReq) {
		return
	}

	cars, total, err := h.service.ListCars(c.Request.Context(), h.companyID(c),
		c.Query("status"), c.Query("sort"), c.Query("order"),
		listReq.PageSize, listReq.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.List(c, cars, total, listReq.Page, listReq.PageSize)
}

// Get returns a single car
func (h *CarHandler) Get(c *gin.Context) {
	carID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	car, err := h.service.GetCar(c.Request.Context(), h.companyID(c), carID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, car)
}

// Update modifies car details
func (h *CarHandler) Update(c *gin.Context) {
	carID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dealership.UpdateCarRequest
	if !h.bindJSON(c, &req) {
		return
	}

	car, err := h.service.UpdateCar(c.Request.Context(), h.companyID(c), carID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, car)
}

// Delete removes a car from the inventory
func (h *CarHandler) Delete(c *gin.Context) {
	carID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), h.companyID(c), carID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}

// Lookup fetches vehicle details from the national registry
func (h *CarHandler) Lookup(c *gin.Context) {
	info, err := h.service.LookupRegistration(c.Request.Context(), c.Param("regnr"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
