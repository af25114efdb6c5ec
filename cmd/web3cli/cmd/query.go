package cmd

import (
	"fmt"
	"strings"

	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/LumeraProtocol/web3go/pkg/web3/modules/eth"
	"github.com/spf13/cobra"
)

var (
	balanceBlock string
	balanceUnit  string
)

var blockNumberCmd = &cobra.Command{
	Use:   "block-number",
	Short: "Print the number of the latest block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd, "block-number")
		defer cancel()

		w, err := newClient()
		if err != nil {
			return err
		}
		n, err := w.Eth().BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to get block number: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an address",
	Long: `Print the balance of an address at a block, converted to the requested unit.

Example:
  web3cli balance 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed --unit gwei`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := args[0]
		if !utils.IsHexAddress(addr) {
			return fmt.Errorf("invalid address %q", addr)
		}
		ctx, cancel := requestContext(cmd, "balance")
		defer cancel()

		w, err := newClient()
		if err != nil {
			return err
		}
		wei, err := w.Eth().GetBalance(ctx, strings.ToLower(addr), balanceBlock)
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}
		amount, err := utils.FromWei(wei, balanceUnit)
		if err != nil {
			return err
		}
		checksum, _ := utils.ToChecksumAddress(addr)
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", checksum, amount, balanceUnit)
		return nil
	},
}

var netVersionCmd = &cobra.Command{
	Use:   "net-version",
	Short: "Print the network id, listening state and peer count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd, "net-version")
		defer cancel()

		w, err := newClient()
		if err != nil {
			return err
		}
		id, err := w.Net().Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to get network id: %w", err)
		}
		listening, err := w.Net().Listening(ctx)
		if err != nil {
			return fmt.Errorf("failed to get listening state: %w", err)
		}
		peers, err := w.Net().PeerCount(ctx)
		if err != nil {
			return fmt.Errorf("failed to get peer count: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "network: %s\nlistening: %t\npeers: %d\n", id, listening, peers)
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&balanceBlock, "block", eth.Latest, "block number or tag")
	balanceCmd.Flags().StringVar(&balanceUnit, "unit", "ether", "unit to print the balance in")

	rootCmd.AddCommand(blockNumberCmd, balanceCmd, netVersionCmd)
}
