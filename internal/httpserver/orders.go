package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cvs-storefront/internal/export"
	ordersvc "cvs-storefront/internal/service/order"
	"github.com/gin-gonic/gin"
)

// getOrderByNumberHandler serves the customer-facing order tracking view.
func getOrderByNumberHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.GetByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listInputFromQuery(c *gin.Context) ordersvc.ListInput {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("perPage"))
	return ordersvc.ListInput{
		Status:    c.Query("status"),
		StartDate: c.Query("from"),
		EndDate:   c.Query("to"),
		Query:     c.Query("q"),
		Page:      page,
		PerPage:   perPage,
	}
}

func listOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.List(c.Request.Context(), listInputFromQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func updateOrderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "status required")
			return
		}
		actor := "admin"
		if adm := currentAdmin(c); adm != nil {
			actor = "admin:" + adm.Username
		}
		order, err := svc.Transition(c.Request.Context(), c.Param("id"), req.Status, actor)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func exportOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListForExport(c.Request.Context(), listInputFromQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		workbook, err := export.OrdersWorkbook(orders)
		if err != nil {
			respondError(c, err)
			return
		}
		defer workbook.Close()

		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := workbook.Write(c.Writer); err != nil {
			// Headers are already out; nothing sane to send.
			_ = c.Error(err)
		}
	}
}
