package httpserver

import (
	"net/http"
	"strings"

	"cvs-storefront/internal/domain"
	adminsvc "cvs-storefront/internal/service/admin"
	"github.com/gin-gonic/gin"
)

const adminCtxKey = "currentAdmin"

func adminRegisterHandler(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in adminsvc.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		acct, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, acct)
	}
}

func adminLoginHandler(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "username and password required")
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":     res.Token,
			"expiresIn": int(res.ExpiresIn.Seconds()),
			"admin":     res.Admin,
		})
	}
}

// adminAuthMiddleware guards the back office with a bearer token.
func adminAuthMiddleware(svc AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		acct, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(adminCtxKey, acct)
		c.Next()
	}
}

func currentAdmin(c *gin.Context) *domain.Admin {
	if v, ok := c.Get(adminCtxKey); ok {
		if adm, ok := v.(*domain.Admin); ok {
			return adm
		}
	}
	return nil
}
