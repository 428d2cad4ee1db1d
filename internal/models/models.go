package models

import "time"

type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// WalletState mirrors what the wallet panel shows. Address, BalanceDisplay
// and ChainID are set only while Connected is true.
type WalletState struct {
	Connected      bool    `json:"connected"`
	Address        *string `json:"address"`
	BalanceDisplay *string `json:"balance"`
	ChainID        *uint64 `json:"chainId"`
	Loading        bool    `json:"loading"`
	Error          *string `json:"error"`
}

func (s WalletState) Status() ConnectionStatus {
	switch {
	case s.Loading:
		return StatusConnecting
	case s.Connected:
		return StatusConnected
	case s.Error != nil:
		return StatusError
	default:
		return StatusDisconnected
	}
}

type TokenStandard string

const (
	StandardFungible    TokenStandard = "fungible"
	StandardNonFungible TokenStandard = "non-fungible"
)

type CarbonToken struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Balance     float64       `json:"balance"`
	MarketValue float64       `json:"value"`
	ProjectID   string        `json:"projectId"`
	Standard    TokenStandard `json:"standard"`
}

type TransactionKind string

const (
	KindMint     TransactionKind = "mint"
	KindTransfer TransactionKind = "transfer"
	KindTrade    TransactionKind = "trade"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxConfirmed TransactionStatus = "confirmed"
	TxFailed    TransactionStatus = "failed"
)

type Transaction struct {
	Hash       string            `json:"hash"`
	Kind       TransactionKind   `json:"type"`
	TokenID    string            `json:"tokenId,omitempty"`
	Amount     float64           `json:"amount"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	CreatedAt  time.Time         `json:"timestamp"`
	Status     TransactionStatus `json:"status"`
	FeeDisplay string            `json:"gasUsed"`
}

type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ShortAddress renders 0x742d35...C4C4 as 0x742d...C4C4.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
