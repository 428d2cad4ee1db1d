package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"bluecarbon/internal/clipboard"
	"bluecarbon/internal/db"
	"bluecarbon/internal/models"
	"bluecarbon/internal/provider"
	"bluecarbon/pkg"
	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrProviderRequest  = errors.New("provider request failed")
	ErrNotConnected     = errors.New("wallet not connected")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrTokenNotFound    = errors.New("token not found")
	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrWalletClosed     = errors.New("wallet closed")
)

const (
	balanceDecimals     = 4
	defaultConnectError = "Failed to connect wallet"
)

type WalletOptions struct {
	ConfirmDelay    time.Duration
	CopiedReset     time.Duration
	DebitOnTransfer bool
}

type WalletDeps struct {
	Provider  provider.WalletProvider
	Clipboard clipboard.Clipboard
	Clock     clock.Clock
	Log       pkg.Logger
	Options   WalletOptions
}

// WalletView is WalletState plus what the panel derives from it.
type WalletView struct {
	models.WalletState
	Status       models.ConnectionStatus `json:"status"`
	Copied       bool                    `json:"copied"`
	Network      string                  `json:"network,omitempty"`
	ShortAddress string                  `json:"shortAddress,omitempty"`
}

// Wallet is one session's wallet panel: connection state machine, holdings
// and transaction log. Timers run on the injected clock and stop on Close.
type Wallet struct {
	id        string
	provider  provider.WalletProvider
	ledger    db.LedgerDB
	clipboard clipboard.Clipboard
	clock     clock.Clock
	log       pkg.Logger
	opts      WalletOptions

	connects singleflight.Group

	mu        sync.Mutex
	state     models.WalletState
	epoch     uint64
	attempt   context.Context
	abort     context.CancelFunc
	copied    bool
	copiedGen uint64
	closed    bool

	quit chan struct{}
	wg   sync.WaitGroup
}

func NewWallet(id string, ledger db.LedgerDB, deps WalletDeps) *Wallet {
	w := &Wallet{
		id:        id,
		provider:  deps.Provider,
		ledger:    ledger,
		clipboard: deps.Clipboard,
		clock:     deps.Clock,
		log:       deps.Log,
		opts:      deps.Options,
		quit:      make(chan struct{}),
	}
	w.attempt, w.abort = context.WithCancel(context.Background())
	return w
}

// Connect starts a connection attempt, or joins the one already in flight
// since the last Disconnect, and waits until it ends or ctx is done. Only
// Disconnect and Close abort the attempt itself.
func (w *Wallet) Connect(ctx context.Context) (WalletView, error) {
	if err := ctx.Err(); err != nil {
		return w.View(), err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return w.View(), ErrWalletClosed
	}
	epoch := w.epoch
	attempt := w.attempt
	w.mu.Unlock()

	ch := w.connects.DoChan(strconv.FormatUint(epoch, 10), func() (interface{}, error) {
		return nil, w.connect(attempt, epoch)
	})
	select {
	case res := <-ch:
		if res.Shared {
			w.log.Debug("joined in-flight wallet connection", zap.String("wallet", w.id))
		}
		return w.View(), res.Err
	case <-ctx.Done():
		w.log.Debug("stopped waiting for wallet connection", zap.String("wallet", w.id), zap.Error(ctx.Err()))
		return w.View(), ctx.Err()
	}
}

func (w *Wallet) connect(ctx context.Context, epoch uint64) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWalletClosed
	}
	if w.epoch != epoch {
		w.mu.Unlock()
		return nil
	}
	w.state.Loading = true
	w.state.Error = nil
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	next, err := w.queryProvider(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		w.log.Info("wallet disconnected during connection, result dropped", zap.String("wallet", w.id))
		return nil
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = defaultConnectError
		}
		w.state = models.WalletState{Error: &msg}
		w.log.Warn("wallet connection failed", zap.String("wallet", w.id), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrProviderRequest, err)
	}
	w.state = next
	w.log.Info("wallet connected",
		zap.String("wallet", w.id),
		zap.String("address", *next.Address),
		zap.Uint64("chainID", *next.ChainID))
	return nil
}

func (w *Wallet) queryProvider(ctx context.Context) (models.WalletState, error) {
	accounts, err := w.provider.RequestAccounts(ctx)
	if err != nil {
		return models.WalletState{}, err
	}
	if len(accounts) == 0 {
		return models.WalletState{}, provider.ErrNoAccounts
	}
	address := accounts[0]

	wei, err := w.provider.GetBalance(ctx, address)
	if err != nil {
		return models.WalletState{}, err
	}
	chainID, err := w.provider.ChainID(ctx)
	if err != nil {
		return models.WalletState{}, err
	}
	balance := provider.FormatEther(wei, balanceDecimals)

	return models.WalletState{
		Connected:      true,
		Address:        &address,
		BalanceDisplay: &balance,
		ChainID:        &chainID,
	}, nil
}

// Disconnect forgets the connection locally and aborts an attempt in
// flight. The provider is not told.
func (w *Wallet) Disconnect() WalletView {
	w.mu.Lock()
	w.state = models.WalletState{}
	w.epoch++
	w.abort()
	w.attempt, w.abort = context.WithCancel(context.Background())
	w.copied = false
	w.copiedGen++
	w.mu.Unlock()

	w.log.Info("wallet disconnected", zap.String("wallet", w.id))
	return w.View()
}

// CopyAddress puts the connected address on the clipboard and raises the
// copied flag until CopiedReset after the latest copy. Reports false and
// does nothing while disconnected.
func (w *Wallet) CopyAddress() (bool, error) {
	w.mu.Lock()
	if !w.state.Connected || w.state.Address == nil {
		w.mu.Unlock()
		return false, nil
	}
	address := *w.state.Address
	w.mu.Unlock()

	if err := w.clipboard.WriteAll(address); err != nil {
		w.log.Error("failed to copy address", zap.String("wallet", w.id), zap.Error(err))
		return false, fmt.Errorf("failed to copy address: %w", err)
	}

	tick := w.clock.TickAfter(w.opts.CopiedReset)
	w.mu.Lock()
	w.copied = true
	w.copiedGen++
	gen := w.copiedGen
	w.mu.Unlock()

	w.after(tick, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.copiedGen == gen {
			w.copied = false
		}
	})
	return true, nil
}

// AccountsChanged applies the provider's accountsChanged event.
func (w *Wallet) AccountsChanged(ctx context.Context, accounts []string) (WalletView, error) {
	w.mu.Lock()
	connected := w.state.Connected
	var current string
	if w.state.Address != nil {
		current = *w.state.Address
	}
	w.mu.Unlock()

	switch {
	case !connected:
		return w.View(), nil
	case len(accounts) == 0:
		return w.Disconnect(), nil
	case accounts[0] != current:
		w.log.Info("wallet account changed", zap.String("wallet", w.id), zap.String("address", accounts[0]))
		return w.Connect(ctx)
	default:
		return w.View(), nil
	}
}

// ChainChanged applies the provider's chainChanged event.
func (w *Wallet) ChainChanged(ctx context.Context) (WalletView, error) {
	w.mu.Lock()
	connected := w.state.Connected
	w.mu.Unlock()

	if !connected {
		return w.View(), nil
	}
	w.log.Info("wallet chain changed", zap.String("wallet", w.id))
	return w.Connect(ctx)
}

func (w *Wallet) State() models.WalletState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Wallet) View() WalletView {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := WalletView{
		WalletState: w.state,
		Status:      w.state.Status(),
		Copied:      w.copied,
	}
	if w.state.ChainID != nil {
		view.Network = provider.NetworkName(*w.state.ChainID)
	}
	if w.state.Address != nil {
		view.ShortAddress = models.ShortAddress(*w.state.Address)
	}
	return view
}

// after runs fn once tick fires, unless the wallet is closed first.
func (w *Wallet) after(tick <-chan time.Time, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-tick:
			fn()
		case <-w.quit:
		}
	}()
}

// Close aborts a connection attempt, stops pending confirmations and flag
// resets, and waits for them.
func (w *Wallet) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.abort()
	close(w.quit)
	w.mu.Unlock()

	w.wg.Wait()
}
