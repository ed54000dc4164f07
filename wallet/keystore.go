package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

// TxBackend is the part of the node api the keystore wallet needs to build and send transactions
type TxBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// KeystoreWallet signs transactions locally with keys from a go-ethereum keystore directory
type KeystoreWallet struct {
	keystore       *keystore.KeyStore
	passphrase     string
	defaultAccount common.Address
	backend        TxBackend
	logger         logrus.FieldLogger
}

func NewKeystoreWallet(keystoreDir string, passphrase string, defaultAccount common.Address, backend TxBackend, logger logrus.FieldLogger) *KeystoreWallet {
	return &KeystoreWallet{
		keystore:       keystore.NewKeyStore(keystoreDir, keystore.StandardScryptN, keystore.StandardScryptP),
		passphrase:     passphrase,
		defaultAccount: defaultAccount,
		backend:        backend,
		logger:         logger.WithField("wallet", "keystore"),
	}
}

// RequestAccounts unlocks all keystore accounts with the configured passphrase
func (w *KeystoreWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	for _, account := range w.keystore.Accounts() {
		if err := w.keystore.Unlock(account, w.passphrase); err != nil {
			return nil, fmt.Errorf("could not unlock account %v: %w", account.Address.Hex(), err)
		}
		w.logger.Debugf("unlocked account %v", account.Address.Hex())
	}

	return w.Accounts(ctx)
}

func (w *KeystoreWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	keystoreAccounts := w.keystore.Accounts()
	if len(keystoreAccounts) == 0 {
		return nil, ErrNoAccounts
	}

	addresses := make([]common.Address, len(keystoreAccounts))
	for i, account := range keystoreAccounts {
		addresses[i] = account.Address
	}

	return orderAccounts(addresses, w.defaultAccount), nil
}

func (w *KeystoreWallet) SendTransaction(ctx context.Context, req *TxRequest) (*types.Transaction, error) {
	if req.To == nil {
		return nil, ErrMissingReceiver
	}
	if !w.keystore.HasAddress(req.From) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAccount, req.From.Hex())
	}

	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	chainID, err := w.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get chain id: %w", err)
	}

	nonce, err := w.backend.PendingNonceAt(ctx, req.From)
	if err != nil {
		return nil, fmt.Errorf("could not get nonce: %w", err)
	}

	gasLimit, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  req.From,
		To:    req.To,
		Value: value,
		Data:  req.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("could not estimate gas: %w", err)
	}

	txData, err := w.buildTxData(ctx, chainID, nonce, gasLimit, req.To, value, req.Data)
	if err != nil {
		return nil, err
	}

	signedTx, err := w.keystore.SignTx(accounts.Account{Address: req.From}, types.NewTx(txData), chainID)
	if err != nil {
		return nil, fmt.Errorf("could not sign transaction: %w", err)
	}

	err = w.backend.SendTransaction(ctx, signedTx)
	if err != nil {
		return nil, fmt.Errorf("could not send transaction: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"from":  req.From.Hex(),
		"to":    req.To.Hex(),
		"nonce": nonce,
		"hash":  signedTx.Hash().Hex(),
	}).Infof("transaction submitted")

	return signedTx, nil
}

func (w *KeystoreWallet) buildTxData(ctx context.Context, chainID *big.Int, nonce uint64, gasLimit uint64, to *common.Address, value *big.Int, data []byte) (types.TxData, error) {
	head, err := w.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not get head header: %w", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := w.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get gas price: %w", err)
		}

		return &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       to,
			Value:    value,
			Data:     data,
		}, nil
	}

	gasTipCap, err := w.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get gas tip cap: %w", err)
	}

	// leave room for the base fee to double before the tx gets stuck
	gasFeeCap := new(big.Int).Add(gasTipCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	return &types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        to,
		Value:     value,
		Data:      data,
	}, nil
}
