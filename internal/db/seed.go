package db

import (
	"time"

	"bluecarbon/internal/models"
)

// SeedTokens returns the holdings every new wallet session starts with.
func SeedTokens() []models.CarbonToken {
	return []models.CarbonToken{
		{ID: "1", DisplayName: "Mangrove Carbon Credits", Symbol: "MCC", Balance: 1250, MarketValue: 56500, ProjectID: "MRV-001", Standard: models.StandardFungible},
		{ID: "2", DisplayName: "Salt Marsh NFT", Symbol: "SMNFT", Balance: 1, MarketValue: 262160, ProjectID: "MRV-003", Standard: models.StandardNonFungible},
		{ID: "3", DisplayName: "Seagrass Credits", Symbol: "SGC", Balance: 890, MarketValue: 40180, ProjectID: "MRV-002", Standard: models.StandardFungible},
	}
}

// SeedTransactions returns the history every new wallet session starts with,
// newest first.
func SeedTransactions() []models.Transaction {
	return []models.Transaction{
		{
			Hash:       "0x1234567890abcdef1234567890abcdef12345678",
			Kind:       models.KindMint,
			TokenID:    "1",
			Amount:     1250,
			From:       "0x0000000000000000000000000000000000000000",
			To:         "0x742d35Cc6634C0532925a3b8D4C2C4e4C4C4C4C4",
			CreatedAt:  time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC),
			Status:     models.TxConfirmed,
			FeeDisplay: "0.0023 ETH",
		},
		{
			Hash:       "0x2345678901bcdef12345678901cdef123456789a",
			Kind:       models.KindTransfer,
			TokenID:    "1",
			Amount:     500,
			From:       "0x742d35Cc6634C0532925a3b8D4C2C4e4C4C4C4C4",
			To:         "0x8ba1f109551bD432803012645Hac136c22C4C4C4",
			CreatedAt:  time.Date(2024, 1, 12, 11, 15, 22, 0, time.UTC),
			Status:     models.TxConfirmed,
			FeeDisplay: "0.0015 ETH",
		},
		{
			Hash:       "0x3456789012cdef123456789012def1234567890b",
			Kind:       models.KindTrade,
			TokenID:    "3",
			Amount:     200,
			From:       "0x742d35Cc6634C0532925a3b8D4C2C4e4C4C4C4C4",
			To:         "0x9cb2f210662eE543904013756Iad247d33D5D5D5",
			CreatedAt:  time.Date(2024, 1, 10, 16, 42, 18, 0, time.UTC),
			Status:     models.TxPending,
			FeeDisplay: "0.0018 ETH",
		},
	}
}
