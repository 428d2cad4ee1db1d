package service

import (
	"errors"
	"fmt"
	"sync"

	"bluecarbon/internal/db"
	"go.uber.org/zap"
)

type WalletService interface {
	// Wallet returns the session's wallet, creating it with the demo
	// holdings and history on first use. Fails with ErrSessionNotFound
	// once the session is gone.
	Wallet(sessionID string) (*Wallet, error)
	// Drop closes and forgets the session's wallet. Call it after the
	// session is deleted.
	Drop(sessionID string)
	Close()
}

type walletService struct {
	sessions db.SessionDB
	deps     WalletDeps

	mu      sync.Mutex
	wallets map[string]*Wallet
}

func NewWalletService(sessions db.SessionDB, deps WalletDeps) WalletService {
	return &walletService{
		sessions: sessions,
		deps:     deps,
		wallets:  make(map[string]*Wallet),
	}
}

// Wallet checks the session and inserts under the same lock Drop takes, so
// a session deleted before Drop can never get a wallet that outlives it.
func (s *walletService) Wallet(sessionID string) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[sessionID]; ok {
		return w, nil
	}
	if _, err := s.sessions.GetSession(sessionID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	w := NewWallet(sessionID, db.NewMemoryLedger(db.SeedTokens(), db.SeedTransactions()), s.deps)
	s.wallets[sessionID] = w
	s.deps.Log.Debug("wallet created", zap.String("wallet", sessionID))
	return w, nil
}

func (s *walletService) Drop(sessionID string) {
	s.mu.Lock()
	w, ok := s.wallets[sessionID]
	delete(s.wallets, sessionID)
	s.mu.Unlock()

	if ok {
		w.Close()
		s.deps.Log.Debug("wallet dropped", zap.String("wallet", sessionID))
	}
}

func (s *walletService) Close() {
	s.mu.Lock()
	wallets := s.wallets
	s.wallets = make(map[string]*Wallet)
	s.mu.Unlock()

	for _, w := range wallets {
		w.Close()
	}
}
