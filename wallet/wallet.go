// Package wallet provides the signers used to submit lottery transactions.
//
// A Wallet plays the role a browser-injected provider plays for a dapp: it
// knows the user's accounts and turns a transaction request into a signed
// transaction that has been handed to the network.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNoAccounts      = errors.New("wallet has no accounts")
	ErrUnknownAccount  = errors.New("account is not managed by this wallet")
	ErrMissingReceiver = errors.New("transaction request has no receiver")
)

// TxRequest describes a contract call to be signed and sent by a wallet
type TxRequest struct {
	From  common.Address
	To    *common.Address
	Value *big.Int
	Data  []byte
}

type Wallet interface {
	// RequestAccounts asks the wallet for permission to use its accounts.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Accounts returns the wallet accounts, the default signer first.
	Accounts(ctx context.Context) ([]common.Address, error)
	// SendTransaction signs and broadcasts the request. It does not wait for inclusion.
	SendTransaction(ctx context.Context, req *TxRequest) (*types.Transaction, error)
}

// orderAccounts moves the preferred account to the front, keeping the order of the rest
func orderAccounts(accounts []common.Address, preferred common.Address) []common.Address {
	if preferred == (common.Address{}) {
		return accounts
	}

	ordered := make([]common.Address, 0, len(accounts))
	found := false
	for _, account := range accounts {
		if account == preferred {
			found = true
			continue
		}
		ordered = append(ordered, account)
	}
	if !found {
		return accounts
	}

	return append([]common.Address{preferred}, ordered...)
}
