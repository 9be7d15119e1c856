package handlers

import (
	"net/http"

	"github.com/billingapp/billing_backend/internal/core/domain"
	"github.com/billingapp/billing_backend/internal/dto"
	"github.com/billingapp/billing_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registerCurrencyRoutes registers routes related to the currency registry.
func registerCurrencyRoutes(rg *gin.RouterGroup) {
	currencies := rg.Group("/currencies")
	{
		currencies.GET("", listCurrencies)
	}
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Retrieves all currencies from the closed registry with their minor-unit exponents
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to list currencies")

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(domain.ListCurrencies()))
}
