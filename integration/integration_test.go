package integration

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bluecarbon/internal/api"
	"bluecarbon/internal/clipboard"
	"bluecarbon/internal/config"
	"bluecarbon/internal/db"
	"bluecarbon/internal/models"
	"bluecarbon/internal/provider"
	"bluecarbon/internal/service"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/labstack/echo/v4"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTestServer(t *testing.T, p provider.WalletProvider, cb clipboard.Clipboard) *echo.Echo {
	t.Helper()
	t.Setenv("CONFIRM_DELAY", "100ms")
	t.Setenv("COPIED_RESET", "100ms")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewDefaultClock()
	sessions := db.NewMemorySessionDB()
	authSvc := service.NewAuthService(sessions, log, clk, cfg.JWTSecret, cfg.SessionTTL, service.Credentials{
		Email:    cfg.DemoEmail,
		Password: cfg.DemoPassword,
	})
	walletSvc := service.NewWalletService(sessions, service.WalletDeps{
		Provider:  p,
		Clipboard: cb,
		Clock:     clk,
		Log:       log,
		Options: service.WalletOptions{
			ConfirmDelay:    cfg.ConfirmDelay,
			CopiedReset:     cfg.CopiedReset,
			DebitOnTransfer: cfg.DebitOnTransfer,
		},
	})
	t.Cleanup(walletSvc.Close)
	return api.NewServer(&api.Handlers{AuthService: authSvc, WalletService: walletSvc, Logger: log}, cfg.AllowedOrigin)
}

type client struct {
	t     *testing.T
	e     *echo.Echo
	token string
}

func (c *client) do(method, path string, body, out interface{}) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func (c *client) login(email, password string) int {
	var resp api.LoginResponse
	code := c.do(http.MethodPost, "/api/auth/login", api.LoginRequest{Email: email, Password: password}, &resp)
	if resp.Token != nil {
		c.token = *resp.Token
	}
	return code
}

func TestIntegration_LoginOnlyWithDemoCredentials(t *testing.T) {
	e := createTestServer(t, provider.NewDemoProvider(clock.NewDefaultClock(), 0), clipboard.NewMemory())

	c := &client{t: t, e: e}
	require.Equal(t, http.StatusUnauthorized, c.login("demo@bluecarbonregistry.com", "demo12"))
	require.Empty(t, c.token)
	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/wallet", nil, nil))

	require.Equal(t, http.StatusOK, c.login("demo@bluecarbonregistry.com", "demo123"))
	require.NotEmpty(t, c.token)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/wallet", nil, nil))
}

func TestIntegration_WalletFlow(t *testing.T) {
	cb := clipboard.NewMemory()
	e := createTestServer(t, provider.NewDemoProvider(clock.NewDefaultClock(), 20*time.Millisecond), cb)
	c := &client{t: t, e: e}
	require.Equal(t, http.StatusOK, c.login("demo@bluecarbonregistry.com", "demo123"))

	var view service.WalletView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/wallet", nil, &view))
	require.Equal(t, models.StatusDisconnected, view.Status)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/wallet/connect", nil, &view))
	require.True(t, view.Connected)
	require.Equal(t, provider.DemoAddress, *view.Address)
	require.Equal(t, "2.4567", *view.BalanceDisplay)
	require.Equal(t, "Ethereum Mainnet", view.Network)

	var copied api.CopyAddressResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/wallet/copy-address", nil, &copied))
	require.True(t, copied.Copied)
	text, _ := cb.ReadAll()
	require.Equal(t, provider.DemoAddress, text)
	require.Eventually(t, func() bool {
		var v service.WalletView
		c.do(http.MethodGet, "/api/wallet", nil, &v)
		return !v.Copied
	}, 2*time.Second, 10*time.Millisecond)

	var tokens []models.CarbonToken
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/wallet/tokens", nil, &tokens))
	require.Len(t, tokens, 3)

	var tx models.Transaction
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/wallet/transfer",
		api.TransferRequest{TokenID: tokens[0].ID, Amount: "125.5", To: "0x9cb2f210662eE543904013756Iad247d33D5D5D5"}, &tx))
	require.Equal(t, models.TxPending, tx.Status)
	require.Equal(t, 125.5, tx.Amount)

	require.Eventually(t, func() bool {
		var txs []models.Transaction
		c.do(http.MethodGet, "/api/wallet/transactions", nil, &txs)
		return len(txs) == 4 && txs[0].Hash == tx.Hash && txs[0].Status == models.TxConfirmed
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/wallet/tokens", nil, &tokens))
	require.Equal(t, db.SeedTokens(), tokens)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/wallet/disconnect", nil, &view))
	require.Equal(t, models.WalletState{}, view.WalletState)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/auth/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/wallet", nil, nil))
}

func TestIntegration_SessionsAreIsolated(t *testing.T) {
	e := createTestServer(t, provider.NewDemoProvider(clock.NewDefaultClock(), 0), clipboard.NewMemory())
	a := &client{t: t, e: e}
	b := &client{t: t, e: e}
	require.Equal(t, http.StatusOK, a.login("demo@bluecarbonregistry.com", "demo123"))
	require.Equal(t, http.StatusOK, b.login("demo@bluecarbonregistry.com", "demo123"))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/wallet/connect", nil, nil))

	var view service.WalletView
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/api/wallet", nil, &view))
	require.False(t, view.Connected)
}

type ethService struct {
	chainID uint64
}

func (s *ethService) RequestAccounts() ([]string, error) {
	return []string{"0x8ba1f109551bD432803012645Hac136c22C4C4C4"}, nil
}

func (s *ethService) GetBalance(address string, block string) (*hexutil.Big, error) {
	wei, _ := new(big.Int).SetString("31415926535897932384", 10)
	return (*hexutil.Big)(wei), nil
}

func (s *ethService) ChainId() (hexutil.Uint64, error) {
	return hexutil.Uint64(s.chainID), nil
}

func TestIntegration_RPCProvider(t *testing.T) {
	eth := &ethService{chainID: 80001}
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", eth))
	t.Cleanup(srv.Stop)
	p := provider.NewRPCProvider(rpc.DialInProc(srv))
	t.Cleanup(p.Close)

	e := createTestServer(t, p, clipboard.NewMemory())
	c := &client{t: t, e: e}
	require.Equal(t, http.StatusOK, c.login("demo@bluecarbonregistry.com", "demo123"))

	var view service.WalletView
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/wallet/connect", nil, &view))
	require.Equal(t, "0x8ba1f109551bD432803012645Hac136c22C4C4C4", *view.Address)
	require.Equal(t, "31.4159", *view.BalanceDisplay)
	require.Equal(t, uint64(80001), *view.ChainID)
	require.Equal(t, "Polygon Mumbai", view.Network)
	require.Equal(t, "0x8ba1...C4C4", view.ShortAddress)
}
