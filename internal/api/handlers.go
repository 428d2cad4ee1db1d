package api

import (
	"errors"
	"net/http"

	"bluecarbon/internal/middleware"
	"bluecarbon/internal/models"
	"bluecarbon/internal/service"
	"bluecarbon/pkg"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthService   service.AuthService
	WalletService service.WalletService
	Logger        pkg.Logger
}

var _ ServerInterface = (*Handlers)(nil)

func (h *Handlers) PostApiAuthLogin(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Invalid request body")})
	}

	token, session, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr("Invalid credentials")})
		}
		h.Logger.Error("failed to log in", zap.String("email", req.Email), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Errors: ptr("Internal server error")})
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: &token, ExpiresAt: &session.ExpiresAt})
}

func (h *Handlers) PostApiAuthLogout(ctx echo.Context) error {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	err = h.AuthService.Logout(session.ID)
	h.WalletService.Drop(session.ID)
	if err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		h.Logger.Error("failed to log out", zap.String("sessionID", session.ID), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Errors: ptr("Internal server error")})
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (h *Handlers) GetApiSession(ctx echo.Context) error {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}
	return ctx.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		Email:         session.Email,
		ExpiresAt:     session.ExpiresAt,
	})
}

func (h *Handlers) GetApiWallet(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}
	return ctx.JSON(http.StatusOK, wallet.View())
}

func (h *Handlers) PostApiWalletConnect(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	view, err := wallet.Connect(ctx.Request().Context())
	if err != nil {
		return h.connectError(ctx, view, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func (h *Handlers) PostApiWalletDisconnect(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}
	return ctx.JSON(http.StatusOK, wallet.Disconnect())
}

func (h *Handlers) PostApiWalletCopyAddress(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	copied, err := wallet.CopyAddress()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Errors: ptr("Failed to copy address")})
	}
	return ctx.JSON(http.StatusOK, CopyAddressResponse{Copied: copied})
}

func (h *Handlers) PostApiWalletEventsAccounts(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	var req AccountsChangedRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Invalid request body")})
	}
	view, err := wallet.AccountsChanged(ctx.Request().Context(), req.Accounts)
	if err != nil {
		return h.connectError(ctx, view, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func (h *Handlers) PostApiWalletEventsChain(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	view, err := wallet.ChainChanged(ctx.Request().Context())
	if err != nil {
		return h.connectError(ctx, view, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func (h *Handlers) GetApiWalletTokens(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}
	return ctx.JSON(http.StatusOK, wallet.Tokens())
}

func (h *Handlers) GetApiWalletTransactions(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}
	return ctx.JSON(http.StatusOK, wallet.Transactions())
}

func (h *Handlers) PostApiWalletTransfer(ctx echo.Context) error {
	wallet, err := h.walletFromContext(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr(err.Error())})
	}

	var req TransferRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Invalid request body")})
	}

	tx, err := wallet.SubmitTransfer(req.TokenID, req.Amount, req.To)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Token, amount and recipient are required")})
		case errors.Is(err, service.ErrInvalidAmount):
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Amount must be a number")})
		case errors.Is(err, service.ErrTokenNotFound):
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Token not found")})
		case errors.Is(err, service.ErrNotEnoughBalance):
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{Errors: ptr("Not enough balance")})
		case errors.Is(err, service.ErrNotConnected):
			return ctx.JSON(http.StatusConflict, ErrorResponse{Errors: ptr("Wallet not connected")})
		}
		h.Logger.Error("failed to submit transfer", zap.String("tokenID", req.TokenID), zap.String("to", req.To), zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Errors: ptr("Internal server error")})
	}
	return ctx.JSON(http.StatusCreated, tx)
}

// connectError reports a failed attempt; the wallet already holds the
// message in its state for the next read.
func (h *Handlers) connectError(ctx echo.Context, view service.WalletView, err error) error {
	if errors.Is(err, service.ErrProviderRequest) {
		msg := err.Error()
		if view.Error != nil {
			msg = *view.Error
		}
		return ctx.JSON(http.StatusBadGateway, ErrorResponse{Errors: &msg})
	}
	if errors.Is(err, service.ErrWalletClosed) {
		return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Errors: ptr("Session closed")})
	}
	h.Logger.Error("failed to connect wallet", zap.Error(err))
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{Errors: ptr("Internal server error")})
}

func (h *Handlers) walletFromContext(ctx echo.Context) (*service.Wallet, error) {
	session, err := getSessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return h.WalletService.Wallet(session.ID)
}

func getSessionFromContext(ctx echo.Context) (models.Session, error) {
	session, ok := ctx.Get(middleware.SessionKey).(models.Session)
	if !ok || session.ID == "" {
		return models.Session{}, errUnauthorized("Unauthorized")
	}
	return session, nil
}

func ptr(s string) *string {
	return &s
}

func errUnauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
