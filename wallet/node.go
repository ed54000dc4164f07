package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

type rpcCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

type transactionLookup interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

type sendTxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to,omitempty"`
	Value *hexutil.Big    `json:"value,omitempty"`
	Data  hexutil.Bytes   `json:"data,omitempty"`
}

// NodeWallet uses the accounts managed by the connected node, the way a dapp
// talks to an injected browser provider.
type NodeWallet struct {
	rpc            rpcCaller
	txLookup       transactionLookup
	defaultAccount common.Address
	logger         logrus.FieldLogger

	lookupInterval time.Duration
	lookupAttempts int
}

func NewNodeWallet(rpc rpcCaller, txLookup transactionLookup, defaultAccount common.Address, logger logrus.FieldLogger) *NodeWallet {
	return &NodeWallet{
		rpc:            rpc,
		txLookup:       txLookup,
		defaultAccount: defaultAccount,
		logger:         logger.WithField("wallet", "node"),
		lookupInterval: 500 * time.Millisecond,
		lookupAttempts: 10,
	}
}

func (w *NodeWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := w.rpc.CallContext(ctx, &accounts, "eth_requestAccounts")
	if err != nil {
		// plain nodes do not implement the permission request
		w.logger.Debugf("eth_requestAccounts failed, falling back to eth_accounts: %v", err)
		return w.Accounts(ctx)
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	return orderAccounts(accounts, w.defaultAccount), nil
}

func (w *NodeWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	err := w.rpc.CallContext(ctx, &accounts, "eth_accounts")
	if err != nil {
		return nil, fmt.Errorf("eth_accounts failed: %w", err)
	}

	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	return orderAccounts(accounts, w.defaultAccount), nil
}

func (w *NodeWallet) SendTransaction(ctx context.Context, req *TxRequest) (*types.Transaction, error) {
	if req.To == nil {
		return nil, ErrMissingReceiver
	}

	args := &sendTxArgs{
		From: req.From,
		To:   req.To,
		Data: req.Data,
	}
	if req.Value != nil && req.Value.Sign() > 0 {
		args.Value = (*hexutil.Big)(req.Value)
	}

	var txHash common.Hash
	err := w.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", args)
	if err != nil {
		return nil, fmt.Errorf("eth_sendTransaction failed: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"from": req.From.Hex(),
		"to":   req.To.Hex(),
		"hash": txHash.Hex(),
	}).Infof("transaction submitted")

	return w.lookupTransaction(ctx, txHash)
}

func (w *NodeWallet) lookupTransaction(ctx context.Context, txHash common.Hash) (*types.Transaction, error) {
	for attempt := 1; ; attempt++ {
		tx, _, err := w.txLookup.TransactionByHash(ctx, txHash)
		if err == nil {
			return tx, nil
		}
		if !errors.Is(err, ethereum.NotFound) || attempt >= w.lookupAttempts {
			return nil, fmt.Errorf("could not load submitted transaction %v: %w", txHash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.lookupInterval):
		}
	}
}
