package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type statementHandler struct {
	accountService   portssvc.AccountReaderSvc
	statementService portssvc.StatementSvc
}

// RegisterStatementRoutes registers the billing-run trigger and statement lookup.
func RegisterStatementRoutes(rg *gin.RouterGroup, accountService portssvc.AccountReaderSvc, statementService portssvc.StatementSvc) {
	h := &statementHandler{
		accountService:   accountService,
		statementService: statementService,
	}

	statements := rg.Group("/statements")
	{
		statements.POST("/generate", h.generate)
		statements.GET("/:statementID", h.getStatement)
	}
}

// generate godoc
// @Summary Run the billing run
// @Description Generates statements for every active account whose closing day is today
// @Tags statements
// @Produce  json
// @Success 200 {object} dto.GenerateStatementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Billing run already in progress"
// @Failure 500 {object} map[string]string "Failed to generate statements"
// @Security BearerAuth
// @Router /api/v1/statements/generate [post]
func (h *statementHandler) generate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	result, err := h.statementService.GenerateForPeriod(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate statements")
		return
	}
	c.JSON(http.StatusOK, dto.GenerateStatementsResponse{
		GeneratedCount: result.GeneratedCount,
		SkippedCount:   result.SkippedCount,
		FailedCount:    result.FailedCount,
	})
}

// getStatement godoc
// @Summary Get a statement
// @Description Returns the statement with its linked transactions
// @Tags statements
// @Produce  json
// @Param   statementID path string true "Statement ID"
// @Success 200 {object} dto.GetStatementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Statement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve statement"
// @Security BearerAuth
// @Router /api/v1/statements/{statementID} [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statement, txns, err := h.accountService.GetStatement(c.Request.Context(), c.Param("statementID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, dto.GetStatementResponse{
		Statement:    dto.ToStatementResponse(statement),
		Transactions: dto.ToListTransactionResponse(txns),
	})
}
