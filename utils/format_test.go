package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethpandaops/lottery/types"
)

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0 ETH", FormatEther(big.NewInt(0)))
	assert.Equal(t, "0.02 ETH", FormatEther(big.NewInt(20000000000000000)))
}

func TestFormatEthAddress(t *testing.T) {
	Config = &types.Config{}
	defer func() { Config = nil }()

	addr := "0x5fbdb2315678afecb367f032d93f642f64180aa3"
	assert.Equal(t, `<span class="text-monospace">0x5FbDB2315678afecb367f032d93F642f64180aa3</span>`, string(FormatEthAddress(addr)))

	Config.Frontend.EthExplorerLink = "https://explorer.example/"
	assert.Contains(t, string(FormatEthAddress(addr)), `href="https://explorer.example/address/0x5FbDB2315678afecb367f032d93F642f64180aa3"`)

	assert.Equal(t, "&lt;b&gt;", string(FormatEthAddress("<b>")))
	assert.Equal(t, "", string(FormatEthAddress("")))
}
