package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bluecarbon/internal/db"
	"bluecarbon/internal/models"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

const transferFee = "0.0012 ETH"

// SubmitTransfer records a pending transfer from the connected address and
// confirms it after ConfirmDelay. The address is not format checked. The
// token balance is only debited with DebitOnTransfer, which also requires a
// positive amount.
func (w *Wallet) SubmitTransfer(tokenID, amount, to string) (models.Transaction, error) {
	tokenID = strings.TrimSpace(tokenID)
	amount = strings.TrimSpace(amount)
	to = strings.TrimSpace(to)
	if tokenID == "" || amount == "" || to == "" {
		return models.Transaction{}, ErrMissingField
	}
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return models.Transaction{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if w.opts.DebitOnTransfer && value <= 0 {
		return models.Transaction{}, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, amount)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return models.Transaction{}, ErrWalletClosed
	}
	if !w.state.Connected || w.state.Address == nil {
		w.mu.Unlock()
		return models.Transaction{}, ErrNotConnected
	}
	from := *w.state.Address
	w.mu.Unlock()

	if _, err := w.ledger.GetToken(tokenID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.Transaction{}, ErrTokenNotFound
		}
		return models.Transaction{}, err
	}
	hash, err := newTxHash()
	if err != nil {
		w.log.Error("failed to generate transaction hash", zap.Error(err))
		return models.Transaction{}, err
	}
	if w.opts.DebitOnTransfer {
		if err := w.ledger.DecreaseBalance(tokenID, value); err != nil {
			if errors.Is(err, db.ErrInsufficientBalance) {
				return models.Transaction{}, ErrNotEnoughBalance
			}
			w.log.Error("failed to debit token", zap.String("wallet", w.id), zap.String("tokenID", tokenID), zap.Error(err))
			return models.Transaction{}, err
		}
	}

	tx := models.Transaction{
		Hash:       hash,
		Kind:       models.KindTransfer,
		TokenID:    tokenID,
		Amount:     value,
		From:       from,
		To:         to,
		CreatedAt:  w.clock.Now().UTC(),
		Status:     models.TxPending,
		FeeDisplay: transferFee,
	}

	tick := w.clock.TickAfter(w.opts.ConfirmDelay)
	w.ledger.PrependTransaction(tx)
	w.after(tick, func() { w.confirm(tx.Hash) })

	w.log.Info("transfer submitted",
		zap.String("wallet", w.id),
		zap.String("hash", tx.Hash),
		zap.String("tokenID", tokenID),
		zap.Float64("amount", value),
		zap.String("to", to))
	return tx, nil
}

func (w *Wallet) confirm(hash string) {
	if err := w.ledger.SetTransactionStatus(hash, models.TxConfirmed); err != nil {
		w.log.Error("failed to confirm transaction", zap.String("wallet", w.id), zap.String("hash", hash), zap.Error(err))
		return
	}
	w.log.Info("transaction confirmed", zap.String("wallet", w.id), zap.String("hash", hash))
}

func (w *Wallet) Tokens() []models.CarbonToken {
	return w.ledger.ListTokens()
}

// Transactions lists the log newest first.
func (w *Wallet) Transactions() []models.Transaction {
	return w.ledger.ListTransactions()
}

func newTxHash() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hexutil.Encode(b), nil
}
