package httpserver

import (
	"net/http"

	catalogsvc "cvs-storefront/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

func listCategoriesHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func getCategoryHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := svc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func createCategoryHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		category, err := svc.CreateCategory(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func updateCategoryHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		category, err := svc.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// listProductsHandler serves the storefront: only active, in-catalog
// products.
func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListProducts(c.Request.Context(), c.Query("category"), false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// adminListProductsHandler includes deactivated products.
func adminListProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListProducts(c.Request.Context(), c.Query("category"), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func createProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		product, err := svc.CreateProduct(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.ProductUpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		product, err := svc.UpdateProduct(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
