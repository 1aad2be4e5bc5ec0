package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DeclineCode is a machine-readable reason for refusing an operation.
type DeclineCode string

const (
	DeclineCardNotFound       DeclineCode = "CARD_NOT_FOUND"
	DeclineCardInactive       DeclineCode = "CARD_INACTIVE"
	DeclineAccountNotActive   DeclineCode = "ACCOUNT_NOT_ACTIVE"
	DeclineInsufficientCredit DeclineCode = "INSUFFICIENT_CREDIT"
	DeclineCardLimitExceeded  DeclineCode = "CARD_LIMIT_EXCEEDED"

	RejectTransactionNotFound   DeclineCode = "TRANSACTION_NOT_FOUND"
	RejectTransactionNotPending DeclineCode = "TRANSACTION_NOT_PENDING"

	RejectInvalidRequest  DeclineCode = "INVALID_REQUEST"
	RejectProcessingError DeclineCode = "PROCESSING_ERROR"

	SkipAccountNotFound   DeclineCode = "ACCOUNT_NOT_FOUND"
	SkipStatementExists   DeclineCode = "STATEMENT_EXISTS"
	SkipGenerationFailure DeclineCode = "GENERATION_FAILED"
)

// Decline pairs a code with a human-readable detail.
type Decline struct {
	Code   DeclineCode `json:"code"`
	Detail string      `json:"detail"`
}

func (d Decline) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Detail)
}

func CardNotFound() Decline {
	return Decline{Code: DeclineCardNotFound, Detail: "Card not found"}
}

func CardInactive(status CardStatus) Decline {
	return Decline{Code: DeclineCardInactive, Detail: fmt.Sprintf("Card is %s", strings.ToLower(string(status)))}
}

func AccountNotActive(status AccountStatus) Decline {
	return Decline{Code: DeclineAccountNotActive, Detail: fmt.Sprintf("Account not active (%s)", strings.ToLower(string(status)))}
}

// InsufficientCredit names both the available credit and the requested amount.
func InsufficientCredit(available, requested decimal.Decimal) Decline {
	return Decline{
		Code:   DeclineInsufficientCredit,
		Detail: fmt.Sprintf("Insufficient credit: available %s, requested %s", FormatMoney(available), FormatMoney(requested)),
	}
}

func CardLimitExceeded(limit, requested decimal.Decimal) Decline {
	return Decline{
		Code:   DeclineCardLimitExceeded,
		Detail: fmt.Sprintf("Amount %s exceeds card spending limit %s", FormatMoney(requested), FormatMoney(limit)),
	}
}

func TransactionNotFound() Decline {
	return Decline{Code: RejectTransactionNotFound, Detail: "Transaction not found"}
}

// TransactionNotPending renders e.g. "Transaction already posted".
func TransactionNotPending(status TransactionStatus) Decline {
	return Decline{Code: RejectTransactionNotPending, Detail: fmt.Sprintf("Transaction already %s", strings.ToLower(string(status)))}
}

func StatementExists() Decline {
	return Decline{Code: SkipStatementExists, Detail: "Statement already exists"}
}

func AccountNotFound() Decline {
	return Decline{Code: SkipAccountNotFound, Detail: "Account not found"}
}

func InvalidRequest(detail string) Decline {
	return Decline{Code: RejectInvalidRequest, Detail: detail}
}

// ProcessingError hides infrastructure detail from callers; the cause is logged.
func ProcessingError() Decline {
	return Decline{Code: RejectProcessingError, Detail: "Could not be processed"}
}

func GenerationFailed() Decline {
	return Decline{Code: SkipGenerationFailure, Detail: "Statement generation failed"}
}
