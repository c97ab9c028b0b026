package httpserver

import (
	"errors"
	"fmt"
	"html"
	"log"
	"net/http"

	"cvs-storefront/internal/domain"
	checkoutsvc "cvs-storefront/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

func beginSelectionHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.BeginInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid body")
			return
		}
		draft, redirect, err := svc.BeginSelection(c.Request.Context(), sessionID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"draft": draft, "redirectUrl": redirect})
	}
}

func getDraftHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		draft, err := svc.GetDraft(c.Request.Context(), sessionID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

// cvsCallbackHandler receives the partner locator's form POST. The
// customer's browser lands here from the partner site, outside our normal
// session routing, so correlation runs entirely on the echoed token.
func cvsCallbackHandler(svc CheckoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			badRequest(c, "invalid form")
			return
		}
		payload := make(map[string]string, len(c.Request.PostForm))
		for key := range c.Request.PostForm {
			payload[key] = c.Request.PostForm.Get(key)
		}
		token := payload["TempVar"]
		if token == "" {
			token = payload["tempvar"]
		}
		if token == "" {
			badRequest(c, "missing correlation token")
			return
		}

		draft, err := svc.CompleteSelection(c.Request.Context(), token, payload)
		if err != nil {
			logger.Printf("cvs callback rejected: %v", err)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.String(http.StatusNotFound, "selection expired, please restart checkout")
			case errors.Is(err, domain.ErrInvalidPartnerPayload):
				c.String(http.StatusBadRequest, "store details incomplete, please pick again")
			default:
				c.String(http.StatusInternalServerError, "something went wrong")
			}
			return
		}

		// The browser is coming from the partner site; hand it a small
		// page that carries it back to the checkout with the draft id.
		page := fmt.Sprintf(
			`<!DOCTYPE html><html><head><meta http-equiv="refresh" content="0;url=/checkout?draft=%s"></head>`+
				`<body>Store %s selected. Returning to checkout...</body></html>`,
			html.EscapeString(draft.ID), html.EscapeString(draft.Pickup.StoreName))
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

func placeOrderHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DraftID string `json:"draftId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "draftId required")
			return
		}
		order, err := svc.PlaceOrder(c.Request.Context(), sessionID(c), req.DraftID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
