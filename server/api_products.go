package fulfillmentserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productmapper "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with the catalog bounded context service.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /v1/products
// Register a new product in the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload productmapper.CreateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Create(c.Request.Context(), productmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productmapper.FromDomain(product))
}

// Get /v1/products
// List all products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomainList(products))
}

// Get /v1/products/:productId
// Find product by ID
func (api *ProductAPI) GetProductById(c *gin.Context) {
	product, err := api.service.GetByID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomain(product))
}

// Put /v1/products/:productId
// Update an existing product; absent fields stay untouched
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload productmapper.UpdateProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Update(c.Request.Context(), c.Param("productId"), productmapper.ToUpdateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productmapper.FromDomain(product))
}

// Delete /v1/products/:productId
// Remove a product from the catalog
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
