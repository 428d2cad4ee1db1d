package provider

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// RPCProvider forwards wallet requests to an Ethereum JSON-RPC endpoint.
type RPCProvider struct {
	client rpcCaller
}

var _ WalletProvider = (*RPCProvider)(nil)

func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

func DialRPCProvider(ctx context.Context, url string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint %q: %w", url, err)
	}
	return NewRPCProvider(client), nil
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	return accounts, nil
}

func (p *RPCProvider) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	var balance hexutil.Big
	if err := p.client.CallContext(ctx, &balance, "eth_getBalance", address, "latest"); err != nil {
		return nil, fmt.Errorf("eth_getBalance: %w", err)
	}
	return balance.ToInt(), nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Uint64
	if err := p.client.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	return uint64(id), nil
}

func (p *RPCProvider) Close() {
	p.client.Close()
}
