package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listStoresHandler serves the locally cached partner store directory so
// customers can browse pickup locations without leaving the site.
func listStoresHandler(stores StoreDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := stores.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stores": list})
	}
}

func getStoreHandler(stores StoreDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := stores.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, store)
	}
}
