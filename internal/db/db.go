package db

import (
	"errors"

	"bluecarbon/internal/models"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// LedgerDB holds one session's token holdings and transaction log.
// Transactions are kept newest first and never removed.
type LedgerDB interface {
	ListTokens() []models.CarbonToken
	GetToken(id string) (models.CarbonToken, error)
	DecreaseBalance(id string, amount float64) error
	PrependTransaction(tx models.Transaction)
	SetTransactionStatus(hash string, status models.TransactionStatus) error
	GetTransaction(hash string) (models.Transaction, error)
	ListTransactions() []models.Transaction
}

type SessionDB interface {
	CreateSession(s models.Session) error
	GetSession(id string) (models.Session, error)
	DeleteSession(id string) error
}
