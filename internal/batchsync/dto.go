package batchsync

import "github.com/google/uuid"

const (
	DefaultQuantity = 10
	MinQuantity     = 1
	MaxQuantity     = 100
)

// Failure codes carried in Result.Error.
const (
	ErrAccountNotFound     = "CONTA_NAO_ENCONTRADA"
	ErrAccountInactive     = "CONTA_INATIVA"
	ErrMarketplaceNotFound = "MARKETPLACE_NAO_ENCONTRADO"
	ErrNoActiveAccount     = "NENHUMA_CONTA_ATIVA"
	ErrNoActiveMarketplace = "NENHUM_MARKETPLACE_ATIVO"
	ErrInvalidQuantity     = "QUANTIDADE_INVALIDA"
)

// Result is returned by every sync entry point. Failures are values, not
// errors: Success is false and Error holds a code or the underlying message.
type Result struct {
	Success             bool          `json:"success"`
	Message             string        `json:"message"`
	TransactionsCreated int           `json:"transactionsCreated"`
	Statistics          *Statistics   `json:"statistics,omitempty"`
	Error               string        `json:"error,omitempty"`
	Accounts            []AccountSync `json:"accounts,omitempty"`
}

// AccountSync is one account's line in a marketplace or global sync.
type AccountSync struct {
	AccountID           uuid.UUID `json:"accountId"`
	Success             bool      `json:"success"`
	TransactionsCreated int       `json:"transactionsCreated"`
	Error               string    `json:"error,omitempty"`
}

func failure(code, message string) Result {
	return Result{Success: false, Message: message, Error: code}
}
