package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethpandaops/lottery/services"
	"github.com/ethpandaops/lottery/utils"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the current lottery state",
	Long:  "Load manager, participants and pot balance of the configured lottery contract and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showState(cmd)
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func showState(cmd *cobra.Command) error {
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

	controller := services.GlobalLotteryService.GetController()

	loadCtx, cancel := context.WithTimeout(ctx, utils.Config.ExecutionApi.CallTimeout)
	defer cancel()

	if err := controller.Load(loadCtx); err != nil {
		return err
	}

	state := controller.State()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Contract:      %v\n", controller.ContractAddress().Hex())
	fmt.Fprintf(out, "Manager:       %v\n", state.Manager.Hex())
	fmt.Fprintf(out, "Pot:           %v\n", utils.FormatEther(state.Balance))
	fmt.Fprintf(out, "Minimum entry: %v ETH\n", controller.MinimumEntry())
	fmt.Fprintf(out, "Participants:  %v\n", utils.FormatPeopleCount(len(state.Participants)))
	for i, participant := range state.Participants {
		fmt.Fprintf(out, "  %3d  %v\n", i, participant.Hex())
	}

	return nil
}
