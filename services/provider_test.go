package services

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/lottery/wallet"
)

type fakeWallet struct {
	accounts []common.Address
	err      error
}

func (f *fakeWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if len(f.accounts) == 0 && f.err == nil {
		return nil, wallet.ErrNoAccounts
	}
	return f.accounts, f.err
}

func (f *fakeWallet) Accounts(ctx context.Context) ([]common.Address, error) {
	return f.accounts, f.err
}

func (f *fakeWallet) SendTransaction(ctx context.Context, req *wallet.TxRequest) (*types.Transaction, error) {
	return nil, errors.New("not implemented")
}

type fakeBalanceReader struct {
	balances map[common.Address]*big.Int
	err      error
}

func (f *fakeBalanceReader) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	if balance := f.balances[account]; balance != nil {
		return balance, nil
	}
	return big.NewInt(0), nil
}

func TestProviderActiveAccount(t *testing.T) {
	logger, _ := test.NewNullLogger()

	provider := NewProvider(&fakeWallet{accounts: []common.Address{testPlayer, testManager}}, &fakeBalanceReader{}, logger)
	account, err := provider.ActiveAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testPlayer, account)

	provider = NewProvider(&fakeWallet{}, &fakeBalanceReader{}, logger)
	_, err = provider.ActiveAccount(context.Background())
	assert.ErrorIs(t, err, wallet.ErrNoAccounts)

	_, err = provider.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, wallet.ErrNoAccounts)
}

func TestProviderGetBalance(t *testing.T) {
	logger, _ := test.NewNullLogger()

	provider := NewProvider(&fakeWallet{}, &fakeBalanceReader{balances: map[common.Address]*big.Int{
		testContract: big.NewInt(42),
	}}, logger)

	balance, err := provider.GetBalance(context.Background(), testContract)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())

	provider = NewProvider(&fakeWallet{}, &fakeBalanceReader{err: errors.New("connection refused")}, logger)
	_, err = provider.GetBalance(context.Background(), testContract)
	assert.ErrorContains(t, err, "connection refused")
}

func TestProviderUnits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	provider := NewProvider(&fakeWallet{}, &fakeBalanceReader{}, logger)

	wei, err := provider.ToWei("0.011")
	require.NoError(t, err)
	assert.Equal(t, "11000000000000000", wei.String())
	assert.Equal(t, "0.011", provider.FromWei(wei))

	_, err = provider.ToWei("-1")
	assert.Error(t, err)
}
