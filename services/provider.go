package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/utils"
	"github.com/ethpandaops/lottery/wallet"
)

// BalanceReader is the part of the node api the provider uses to read balances
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Provider wraps the wallet and the execution node behind the account and unit helpers the frontend needs
type Provider struct {
	wallet wallet.Wallet
	chain  BalanceReader
	logger logrus.FieldLogger
}

func NewProvider(w wallet.Wallet, chain BalanceReader, logger logrus.FieldLogger) *Provider {
	return &Provider{
		wallet: w,
		chain:  chain,
		logger: logger.WithField("module", "provider"),
	}
}

// RequestAccounts asks the wallet for account access, called once on startup
func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	accounts, err := p.wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Infof("wallet granted access to %v accounts, default signer %v", len(accounts), accounts[0].Hex())
	return accounts, nil
}

func (p *Provider) GetAccounts(ctx context.Context) ([]common.Address, error) {
	return p.wallet.Accounts(ctx)
}

// ActiveAccount returns the default signer of the wallet
func (p *Provider) ActiveAccount(ctx context.Context) (common.Address, error) {
	accounts, err := p.wallet.Accounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, wallet.ErrNoAccounts
	}
	return accounts[0], nil
}

// GetBalance returns the balance of address in wei at the latest block
func (p *Provider) GetBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := p.chain.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("could not get balance of %v: %w", address.Hex(), err)
	}
	return balance, nil
}

func (p *Provider) ToWei(ether string) (*big.Int, error) {
	return utils.EtherToWei(ether)
}

func (p *Provider) FromWei(wei *big.Int) string {
	return utils.WeiToEther(wei)
}
