package provider

import (
	"context"
	"math/big"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

const (
	DemoAddress = "0x742d35Cc6634C0532925a3b8D4C2C4e4C4C4C4C4"
	DemoChainID = uint64(1)
)

// 2.4567 ETH
var demoBalanceWei = new(big.Int).Mul(big.NewInt(24567), big.NewInt(1e14))

// DemoProvider answers with a fixed account after a simulated delay.
type DemoProvider struct {
	clock clock.Clock
	delay time.Duration
}

var _ WalletProvider = (*DemoProvider)(nil)

func NewDemoProvider(clk clock.Clock, delay time.Duration) *DemoProvider {
	return &DemoProvider{clock: clk, delay: delay}
}

// RequestAccounts is the only call that pays the connection delay.
func (p *DemoProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	select {
	case <-p.clock.TickAfter(p.delay):
		return []string{DemoAddress}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *DemoProvider) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	return new(big.Int).Set(demoBalanceWei), nil
}

func (p *DemoProvider) ChainID(ctx context.Context) (uint64, error) {
	return DemoChainID, nil
}
