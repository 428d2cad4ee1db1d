package provider

import (
	"fmt"
	"math/big"
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatEther converts wei to ether with a fixed number of decimals.
func FormatEther(wei *big.Int, decimals int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	return new(big.Rat).SetFrac(wei, weiPerEther).FloatString(decimals)
}

var networks = map[uint64]string{
	1:        "Ethereum Mainnet",
	5:        "Goerli Testnet",
	11155111: "Sepolia Testnet",
	137:      "Polygon Mainnet",
	80001:    "Polygon Mumbai",
}

func NetworkName(chainID uint64) string {
	if name, ok := networks[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Chain ID: %d", chainID)
}
