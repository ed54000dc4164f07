package utils

import (
	"fmt"
	"html/template"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// FormatEther renders a wei amount as ether with the unit appended
func FormatEther(wei *big.Int) string {
	return WeiToEther(wei) + " ETH"
}

// FormatEthAddress renders a checksummed address, linked to the block explorer if one is configured
func FormatEthAddress(address string) template.HTML {
	if address == "" {
		return template.HTML("")
	}
	if !common.IsHexAddress(address) {
		return template.HTML(template.HTMLEscapeString(address))
	}

	checksummed := common.HexToAddress(address).Hex()
	explorerLink := ""
	if Config != nil {
		explorerLink = strings.TrimSuffix(Config.Frontend.EthExplorerLink, "/")
	}
	if explorerLink == "" {
		return template.HTML(fmt.Sprintf(`<span class="text-monospace">%v</span>`, checksummed))
	}

	return template.HTML(fmt.Sprintf(`<a class="text-monospace" href="%v/address/%v" target="_blank" rel="noopener noreferrer">%v</a>`, explorerLink, checksummed, checksummed))
}

// FormatPeopleCount renders the "N people entered" phrase of the lottery page
func FormatPeopleCount(count int) string {
	return fmt.Sprintf("%v people entered", count)
}
