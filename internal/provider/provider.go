package provider

import (
	"context"
	"errors"
	"math/big"
)

var ErrNoAccounts = errors.New("no accounts available")

// WalletProvider is the account/balance surface a wallet extension exposes.
type WalletProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	// GetBalance returns the latest balance in wei.
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	ChainID(ctx context.Context) (uint64, error)
}
