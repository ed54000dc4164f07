package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/ethpandaops/lottery/utils"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between ether and wei",
}

var toWeiCmd = &cobra.Command{
	Use:   "towei <ether>",
	Short: "Convert an ether amount to wei",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wei, err := utils.EtherToWei(args[0])
		if err != nil {
			return fmt.Errorf("invalid ether amount %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), wei.String())
		return nil
	},
}

var fromWeiCmd = &cobra.Command{
	Use:   "fromwei <wei>",
	Short: "Convert a wei amount to ether",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wei, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid wei amount %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.WeiToEther(wei))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.AddCommand(toWeiCmd)
	convertCmd.AddCommand(fromWeiCmd)
}
