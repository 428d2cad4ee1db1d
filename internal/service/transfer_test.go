package service

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"bluecarbon/internal/db"
	"bluecarbon/internal/models"
	"github.com/stretchr/testify/require"
)

func connectedWallet(t *testing.T, opts WalletOptions) (*Wallet, *testEnv) {
	t.Helper()
	w, env := newTestWallet(t, staticProvider(testAddress, big.NewInt(0), 1), opts)
	_, err := w.Connect(context.Background())
	require.NoError(t, err)
	return w, env
}

func TestSubmitTransfer_MissingFields(t *testing.T) {
	w, env := connectedWallet(t, WalletOptions{})

	cases := []struct {
		name, token, amount, to string
	}{
		{"no token", "", "10", "0xdest"},
		{"no amount", "1", "", "0xdest"},
		{"no recipient", "1", "10", ""},
		{"blank recipient", "1", "10", "   "},
		{"all empty", "", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := w.SubmitTransfer(c.token, c.amount, c.to)
			require.ErrorIs(t, err, ErrMissingField)
			require.Len(t, w.Transactions(), len(db.SeedTransactions()))
		})
	}
	require.Empty(t, env.ticks)
}

func TestSubmitTransfer_Rejections(t *testing.T) {
	w, _ := newTestWallet(t, staticProvider(testAddress, big.NewInt(0), 1), WalletOptions{})

	_, err := w.SubmitTransfer("1", "10", "0xdest")
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = w.Connect(context.Background())
	require.NoError(t, err)

	_, err = w.SubmitTransfer("99", "10", "0xdest")
	require.ErrorIs(t, err, ErrTokenNotFound)

	_, err = w.SubmitTransfer("1", "ten", "0xdest")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = w.SubmitTransfer("1", "NaN", "0xdest")
	require.ErrorIs(t, err, ErrInvalidAmount)

	require.Len(t, w.Transactions(), len(db.SeedTransactions()))
}

func TestSubmitTransfer_PendingThenConfirmed(t *testing.T) {
	w, env := connectedWallet(t, WalletOptions{})
	before := w.Transactions()

	tx, err := w.SubmitTransfer("1", "100", "0x8ba1f109551bD432803012645Hac136c22C4C4C4")
	require.NoError(t, err)
	require.Equal(t, models.TxPending, tx.Status)
	require.Equal(t, models.KindTransfer, tx.Kind)
	require.Equal(t, 100.0, tx.Amount)
	require.Equal(t, testAddress, tx.From)
	require.Equal(t, "0x8ba1f109551bD432803012645Hac136c22C4C4C4", tx.To)
	require.Equal(t, "0.0012 ETH", tx.FeeDisplay)
	require.Equal(t, env.start, tx.CreatedAt)
	require.True(t, strings.HasPrefix(tx.Hash, "0x"))
	require.Len(t, tx.Hash, 66)

	list := w.Transactions()
	require.Len(t, list, len(before)+1)
	require.Equal(t, tx, list[0])
	require.Equal(t, before, list[1:])

	require.Equal(t, 3*time.Second, <-env.ticks)
	env.advance(2 * time.Second)
	require.Equal(t, models.TxPending, w.Transactions()[0].Status)

	env.advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return w.Transactions()[0].Status == models.TxConfirmed
	}, time.Second, 5*time.Millisecond)

	list = w.Transactions()
	require.Equal(t, tx.Hash, list[0].Hash)
	require.Equal(t, before, list[1:])
}

func TestSubmitTransfer_EachConfirmsOnItsOwnTimer(t *testing.T) {
	w, env := connectedWallet(t, WalletOptions{})

	first, err := w.SubmitTransfer("1", "5", "0xaaa")
	require.NoError(t, err)
	<-env.ticks

	env.advance(time.Second)
	second, err := w.SubmitTransfer("3", "7", "0xbbb")
	require.NoError(t, err)
	<-env.ticks

	list := w.Transactions()
	require.Equal(t, second.Hash, list[0].Hash)
	require.Equal(t, first.Hash, list[1].Hash)

	env.advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return w.Transactions()[1].Status == models.TxConfirmed
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, models.TxPending, w.Transactions()[0].Status)

	env.advance(4 * time.Second)
	require.Eventually(t, func() bool {
		return w.Transactions()[0].Status == models.TxConfirmed
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitTransfer_SeededPendingStaysPending(t *testing.T) {
	w, env := connectedWallet(t, WalletOptions{})

	_, err := w.SubmitTransfer("1", "1", "0xaaa")
	require.NoError(t, err)
	<-env.ticks
	env.advance(time.Minute)
	require.Eventually(t, func() bool {
		return w.Transactions()[0].Status == models.TxConfirmed
	}, time.Second, 5*time.Millisecond)

	last := w.Transactions()[len(db.SeedTransactions())]
	require.Equal(t, models.KindTrade, last.Kind)
	require.Equal(t, models.TxPending, last.Status)
}

func TestSubmitTransfer_BalanceNotDebitedByDefault(t *testing.T) {
	w, _ := connectedWallet(t, WalletOptions{})

	_, err := w.SubmitTransfer("1", "5000", "0xaaa")
	require.NoError(t, err)
	require.Equal(t, db.SeedTokens(), w.Tokens())
}

func TestSubmitTransfer_DebitOnTransfer(t *testing.T) {
	w, _ := connectedWallet(t, WalletOptions{DebitOnTransfer: true})

	_, err := w.SubmitTransfer("1", "250", "0xaaa")
	require.NoError(t, err)
	require.Equal(t, 1000.0, w.Tokens()[0].Balance)

	_, err = w.SubmitTransfer("2", "2", "0xaaa")
	require.ErrorIs(t, err, ErrNotEnoughBalance)
	require.Len(t, w.Transactions(), len(db.SeedTransactions())+1)
}

func TestSubmitTransfer_DebitRejectsNonPositiveAmount(t *testing.T) {
	w, _ := connectedWallet(t, WalletOptions{DebitOnTransfer: true})

	for _, amount := range []string{"-5", "0", "-0.0001"} {
		_, err := w.SubmitTransfer("1", amount, "0xaaa")
		require.ErrorIs(t, err, ErrInvalidAmount, amount)
	}
	require.Equal(t, 1250.0, w.Tokens()[0].Balance)
	require.Len(t, w.Transactions(), len(db.SeedTransactions()))
}

func TestSubmitTransfer_NegativeAmountAcceptedWithoutDebit(t *testing.T) {
	w, _ := connectedWallet(t, WalletOptions{})

	tx, err := w.SubmitTransfer("1", "-5", "0xaaa")
	require.NoError(t, err)
	require.Equal(t, -5.0, tx.Amount)
	require.Equal(t, 1250.0, w.Tokens()[0].Balance)
}

func TestSubmitTransfer_ClosedWalletStopsTimers(t *testing.T) {
	w, env := connectedWallet(t, WalletOptions{})

	_, err := w.SubmitTransfer("1", "1", "0xaaa")
	require.NoError(t, err)
	<-env.ticks

	w.Close()
	_, err = w.SubmitTransfer("1", "1", "0xaaa")
	require.ErrorIs(t, err, ErrWalletClosed)
	require.Equal(t, models.TxPending, w.Transactions()[0].Status)
}
