package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// webhookHandler serves the card-network authorization and settlement callbacks.
type webhookHandler struct {
	authorizationService portssvc.AuthorizationSvc
	settlementService    portssvc.SettlementSvc
}

func registerWebhookRoutes(rg *gin.RouterGroup, authorizationService portssvc.AuthorizationSvc, settlementService portssvc.SettlementSvc) {
	h := &webhookHandler{
		authorizationService: authorizationService,
		settlementService:    settlementService,
	}
	rg.POST("/authorizations", h.authorize)
	rg.POST("/settlements", h.settle)
	rg.POST("/settlements/batch", h.settleBatch)
}

// authorize godoc
// @Summary Authorization webhook
// @Description Decides a card-network authorization request. Approvals and declines both answer 200; retries of a known id replay the recorded decision.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   authorization body dto.AuthorizeRequest true "Authorization request, amount in minor units"
// @Success 200 {object} dto.AuthorizeResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Invalid webhook signature"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to process authorization"
// @Security WebhookSignature
// @Router /webhooks/authorizations [post]
func (h *webhookHandler) authorize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind request body
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind authorization request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	decision, err := h.authorizationService.Authorize(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to process authorization")
		return
	}
	c.JSON(http.StatusOK, dto.ToAuthorizeResponse(decision))
}

// settle godoc
// @Summary Settlement webhook
// @Description Posts a pending authorization, optionally at a different final amount
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   settlement body dto.SettleRequest true "Settlement request, final amount in minor units"
// @Success 200 {object} dto.SettleResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Invalid webhook signature"
// @Failure 500 {object} map[string]string "Failed to process settlement"
// @Security WebhookSignature
// @Router /webhooks/settlements [post]
func (h *webhookHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind request body
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind settlement request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Convert the final amount from minor units
	var finalAmount *decimal.Decimal
	if req.FinalAmount != nil {
		amount := domain.FromMinorUnits(*req.FinalAmount)
		finalAmount = &amount
	}

	outcome, err := h.settlementService.Settle(c.Request.Context(), req.TransactionID, finalAmount)
	if err != nil {
		respondError(c, logger, err, "Failed to process settlement")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettleResponse(outcome))
}

// settleBatch godoc
// @Summary Batch settlement webhook
// @Description Settles each entry independently; one failure does not stop the rest
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   batch body dto.SettleBatchRequest true "Settlements"
// @Success 200 {object} dto.SettleBatchResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Invalid webhook signature"
// @Failure 500 {object} map[string]string "Failed to process settlement batch"
// @Security WebhookSignature
// @Router /webhooks/settlements/batch [post]
func (h *webhookHandler) settleBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind request body
	var req dto.SettleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind settlement batch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.SettleBatch(c.Request.Context(), req.Settlements)
	if err != nil {
		respondError(c, logger, err, "Failed to process settlement batch")
		return
	}
	logger.Info("Settlement batch processed", slog.Int("succeeded", result.Succeeded), slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, dto.ToSettleBatchResponse(result))
}
