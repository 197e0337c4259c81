package fulfillmentserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	inventorymapper "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/http/mapper"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

// InventoryAPI wires HTTP transport with the inventory bounded context service.
type InventoryAPI struct {
	service inventoryports.Service
}

// NewInventoryAPI creates an InventoryAPI backed by the provided service.
func NewInventoryAPI(service inventoryports.Service) InventoryAPI {
	return InventoryAPI{service: service}
}

// Post /v1/inventory
// Start tracking stock for a product
func (api *InventoryAPI) CreateInventory(c *gin.Context) {
	var payload inventorymapper.CreateRecord
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	record, err := api.service.Create(c.Request.Context(), inventorymapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inventorymapper.FromDomain(record))
}

// Get /v1/inventory
// List all inventory records
func (api *InventoryAPI) ListInventory(c *gin.Context) {
	records, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromDomainList(records))
}

// Get /v1/inventory/:inventoryId
// Find inventory record by ID
func (api *InventoryAPI) GetInventoryById(c *gin.Context) {
	record, err := api.service.GetByID(c.Request.Context(), c.Param("inventoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromDomain(record))
}

// Get /v1/inventory/product/:productId
// Find the record tracking a product
func (api *InventoryAPI) GetInventoryByProduct(c *gin.Context) {
	record, err := api.service.GetByProductID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromDomain(record))
}

// Put /v1/inventory/:inventoryId
// Overwrite the tracked quantity (administrative path)
func (api *InventoryAPI) SetInventoryQuantity(c *gin.Context) {
	var payload inventorymapper.SetQuantity
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	record, err := api.service.SetQuantity(c.Request.Context(), c.Param("inventoryId"), payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromDomain(record))
}

// Delete /v1/inventory/:inventoryId
// Stop tracking a product
func (api *InventoryAPI) DeleteInventory(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("inventoryId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
