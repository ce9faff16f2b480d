package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/platform"
)

// HandleListProducts handles GET /v1/catalog/products
func HandleListProducts(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		limit, _ := strconv.Atoi(c.Query("limit"))

		result, err := client.ListProducts(c.Request.Context(), c.Query("search"), c.Query("category"), page, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleGetProduct handles GET /v1/catalog/products/:id
func HandleGetProduct(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := client.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleListCategories handles GET /v1/catalog/categories
func HandleListCategories(client *platform.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := client.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
