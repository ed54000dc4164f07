package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of wei decimals in one ether
const EtherDecimals = 18

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrAmountPrecision = errors.New("amount has more than 18 decimal places")
)

// ParseEther parses a decimal ether amount without going through floating point.
func ParseEther(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if value.Sign() < 0 {
		return decimal.Zero, ErrNegativeAmount
	}
	if !value.Shift(EtherDecimals).IsInteger() {
		return decimal.Zero, ErrAmountPrecision
	}

	return value, nil
}

// EtherToWei converts a decimal ether string into wei.
func EtherToWei(amount string) (*big.Int, error) {
	value, err := ParseEther(amount)
	if err != nil {
		return nil, err
	}
	return value.Shift(EtherDecimals).BigInt(), nil
}

// WeiToEther converts wei into a decimal ether string with trailing zeros trimmed.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}
