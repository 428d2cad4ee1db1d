package api

import (
	"time"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Errors *string `json:"errors,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     *string    `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type SessionResponse struct {
	Authenticated bool      `json:"authenticated"`
	Email         string    `json:"email"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type CopyAddressResponse struct {
	Copied bool `json:"copied"`
}

type AccountsChangedRequest struct {
	Accounts []string `json:"accounts"`
}

// Amount stays a string, the way the form field holds it.
type TransferRequest struct {
	TokenID string `json:"tokenId"`
	Amount  string `json:"amount"`
	To      string `json:"to"`
}

type ServerInterface interface {
	// (POST /api/auth/login)
	PostApiAuthLogin(ctx echo.Context) error
	// (POST /api/auth/logout)
	PostApiAuthLogout(ctx echo.Context) error
	// (GET /api/session)
	GetApiSession(ctx echo.Context) error
	// (GET /api/wallet)
	GetApiWallet(ctx echo.Context) error
	// (POST /api/wallet/connect)
	PostApiWalletConnect(ctx echo.Context) error
	// (POST /api/wallet/disconnect)
	PostApiWalletDisconnect(ctx echo.Context) error
	// (POST /api/wallet/copy-address)
	PostApiWalletCopyAddress(ctx echo.Context) error
	// (POST /api/wallet/events/accounts)
	PostApiWalletEventsAccounts(ctx echo.Context) error
	// (POST /api/wallet/events/chain)
	PostApiWalletEventsChain(ctx echo.Context) error
	// (GET /api/wallet/tokens)
	GetApiWalletTokens(ctx echo.Context) error
	// (GET /api/wallet/transactions)
	GetApiWalletTransactions(ctx echo.Context) error
	// (POST /api/wallet/transfer)
	PostApiWalletTransfer(ctx echo.Context) error
}

const LoginPath = "/api/auth/login"

func RegisterHandlers(router *echo.Echo, si ServerInterface) {
	router.POST(LoginPath, si.PostApiAuthLogin)
	router.POST("/api/auth/logout", si.PostApiAuthLogout)
	router.GET("/api/session", si.GetApiSession)
	router.GET("/api/wallet", si.GetApiWallet)
	router.POST("/api/wallet/connect", si.PostApiWalletConnect)
	router.POST("/api/wallet/disconnect", si.PostApiWalletDisconnect)
	router.POST("/api/wallet/copy-address", si.PostApiWalletCopyAddress)
	router.POST("/api/wallet/events/accounts", si.PostApiWalletEventsAccounts)
	router.POST("/api/wallet/events/chain", si.PostApiWalletEventsChain)
	router.GET("/api/wallet/tokens", si.GetApiWalletTokens)
	router.GET("/api/wallet/transactions", si.GetApiWalletTransactions)
	router.POST("/api/wallet/transfer", si.PostApiWalletTransfer)
}
