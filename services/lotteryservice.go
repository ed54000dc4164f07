package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/clients/execution"
	"github.com/ethpandaops/lottery/contracts/lottery"
	"github.com/ethpandaops/lottery/utils"
	"github.com/ethpandaops/lottery/wallet"
)

// LotteryService bundles the node connection, wallet and contract binding behind the lottery controller
type LotteryService struct {
	client     *execution.Client
	wallet     wallet.Wallet
	provider   *Provider
	contract   *lottery.Lottery
	controller *LotteryController
}

var GlobalLotteryService *LotteryService

// InitLotteryService connects to the execution node and sets up the global lottery controller
func InitLotteryService(ctx context.Context, logger logrus.FieldLogger) error {
	if GlobalLotteryService != nil {
		return nil
	}

	client := execution.NewClient(&execution.ClientConfig{
		URL:     utils.Config.ExecutionApi.Endpoint,
		Name:    "execution",
		Headers: utils.Config.ExecutionApi.Headers,
	}, logger.WithField("module", "execution"))

	initCtx, cancel := context.WithTimeout(ctx, utils.Config.ExecutionApi.CallTimeout)
	defer cancel()

	if err := client.Initialize(initCtx); err != nil {
		return err
	}

	w, err := newWallet(client, logger)
	if err != nil {
		client.Close()
		return err
	}

	provider := NewProvider(w, client.GetEthClient(), logger)

	contract, err := lottery.NewLottery(common.HexToAddress(utils.Config.Contract.Address), client.GetEthClient(), w, logger)
	if err != nil {
		client.Close()
		return err
	}

	controller, err := NewLotteryController(contract, provider, &LotteryControllerConfig{
		MinimumEntry:       utils.Config.Contract.MinimumEntry,
		TransactionTimeout: utils.Config.Contract.TransactionTimeout,
	}, logger)
	if err != nil {
		client.Close()
		return err
	}

	GlobalLotteryService = &LotteryService{
		client:     client,
		wallet:     w,
		provider:   provider,
		contract:   contract,
		controller: controller,
	}
	GlobalLotteryController = controller

	return nil
}

func newWallet(client *execution.Client, logger logrus.FieldLogger) (wallet.Wallet, error) {
	var defaultAccount common.Address
	if utils.Config.Wallet.DefaultAccount != "" {
		defaultAccount = common.HexToAddress(utils.Config.Wallet.DefaultAccount)
	}

	switch utils.Config.Wallet.Mode {
	case "node":
		return wallet.NewNodeWallet(client.GetRPCClient(), client.GetEthClient(), defaultAccount, logger), nil
	case "keystore":
		return wallet.NewKeystoreWallet(utils.Config.Wallet.KeystoreDir, utils.Config.Wallet.Passphrase, defaultAccount, client.GetEthClient(), logger), nil
	default:
		return nil, fmt.Errorf("unknown wallet mode: %v", utils.Config.Wallet.Mode)
	}
}

// StartService requests wallet access and loads the initial lottery state.
// A failed state load is kept in the controller state and retried by the frontend.
func (ls *LotteryService) StartService(ctx context.Context) error {
	if _, err := ls.provider.RequestAccounts(ctx); err != nil {
		return fmt.Errorf("could not get wallet accounts: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, utils.Config.ExecutionApi.CallTimeout)
	defer cancel()

	if err := ls.controller.Load(loadCtx); err != nil {
		ls.controller.logger.WithError(err).Warnf("initial lottery state load failed")
	}

	return nil
}

func (ls *LotteryService) GetProvider() *Provider {
	return ls.provider
}

func (ls *LotteryService) GetController() *LotteryController {
	return ls.controller
}

func (ls *LotteryService) GetClient() *execution.Client {
	return ls.client
}

func (ls *LotteryService) StopService() {
	ls.client.Close()
}
