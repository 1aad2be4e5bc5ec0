package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger/internal/dto"
	"github.com/SscSPs/credit_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	paymentService   portssvc.PaymentSvc
	statementService portssvc.StatementSvc
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, paymentService portssvc.PaymentSvc, statementService portssvc.StatementSvc) {
	h := &accountHandler{
		accountService:   accountService,
		paymentService:   paymentService,
		statementService: statementService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.openAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.POST("/:accountID/cards", h.issueCard)
		accounts.GET("/:accountID/transactions", h.listTransactions)
		accounts.GET("/:accountID/statements", h.listStatements)
		accounts.POST("/:accountID/statements", h.generateStatement)
		accounts.POST("/:accountID/payments", h.applyPayment)
	}
}

// openAccount godoc
// @Summary Open a credit account
// @Description Creates an ACTIVE account with a zero balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.OpenAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to open account"
// @Security BearerAuth
// @Router /api/v1/accounts [post]
func (h *accountHandler) openAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind request body
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.OpenAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to open account")
		return
	}
	operatorID, _ := middleware.GetOperatorIDFromContext(c)
	logger.Info("Account opened", slog.String("account_id", account.AccountID), slog.String("opened_by", operatorID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// issueCard godoc
// @Summary Issue a card
// @Description Adds an ACTIVE card to the account. Only the last four digits of the card number are stored.
// @Tags cards
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   card body dto.IssueCardRequest true "Card details"
// @Success 201 {object} dto.CardResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account closed or card already exists"
// @Failure 500 {object} map[string]string "Failed to issue card"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID}/cards [post]
func (h *accountHandler) issueCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind request body
	var req dto.IssueCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The binding error can echo the card number back.
		logger.Warn("Failed to bind JSON for IssueCard")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	card, err := h.accountService.IssueCard(c.Request.Context(), c.Param("accountID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to issue card")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCardResponse(card))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists an account's transactions, newest first, with cursor pagination
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// Bind query parameters
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountService.ListTransactions(c.Request.Context(), c.Param("accountID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listStatements godoc
// @Summary List statements
// @Tags statements
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} map[string][]dto.StatementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list statements"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID}/statements [get]
func (h *accountHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statements, err := h.accountService.ListStatements(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list statements")
		return
	}
	c.JSON(http.StatusOK, gin.H{"statements": dto.ToListStatementResponse(statements)})
}

// generateStatement godoc
// @Summary Generate a statement for one account
// @Description Answers 201 when a statement was created and 200 when it was skipped
// @Tags statements
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 201 {object} dto.StatementOutcomeResponse
// @Success 200 {object} dto.StatementOutcomeResponse "Skipped"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to generate statement"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID}/statements [post]
func (h *accountHandler) generateStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	outcome, err := h.statementService.GenerateForAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to generate statement")
		return
	}
	// A skipped statement is not an error
	status := http.StatusOK
	if outcome.Generated {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToStatementOutcomeResponse(outcome))
}

// applyPayment godoc
// @Summary Apply a payment
// @Description Reduces the balance. Overpayment floors the balance at zero.
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   payment body dto.PaymentRequest true "Payment amount"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account not active"
// @Failure 500 {object} map[string]string "Failed to apply payment"
// @Security BearerAuth
// @Router /api/v1/accounts/{accountID}/payments [post]
func (h *accountHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	// Bind request body
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	// Apply the payment under the account lock
	result, err := h.paymentService.ApplyPayment(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to apply payment")
		return
	}
	logger.Info("Payment applied", slog.String("account_id", accountID), slog.String("amount", req.Amount.StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(result))
}
