package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethpandaops/lottery/services"
	"github.com/ethpandaops/lottery/utils"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the wallet accounts",
	Long:  "Request access to the configured wallet and list its accounts with their balances. The first account is used to sign lottery transactions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAccounts(cmd)
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func listAccounts(cmd *cobra.Command) error {
	logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = services.InitLotteryService(ctx, logger)
	if err != nil {
		return fmt.Errorf("error initializing lottery service: %v", err)
	}
	defer services.GlobalLotteryService.StopService()

	provider := services.GlobalLotteryService.GetProvider()

	callCtx, cancel := context.WithTimeout(ctx, utils.Config.ExecutionApi.CallTimeout)
	defer cancel()

	if _, err := provider.RequestAccounts(callCtx); err != nil {
		return err
	}

	accounts, err := provider.GetAccounts(callCtx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, account := range accounts {
		balance, err := provider.GetBalance(callCtx, account)
		if err != nil {
			return err
		}

		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(out, "%v %v  %v ETH\n", marker, account.Hex(), provider.FromWei(balance))
	}

	return nil
}
