package cmd

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/utils"
	"github.com/spf13/cobra"
)

var unlockDuration time.Duration

// askPassphrase is replaced in tests.
var askPassphrase = func(addr string) (string, error) {
	var passphrase string
	prompt := &survey.Password{
		Message: fmt.Sprintf("Passphrase for %s:", addr),
	}
	err := survey.AskOne(prompt, &passphrase, survey.WithValidator(survey.Required))
	return passphrase, err
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts held by the node",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd, "accounts")
		defer cancel()

		w, err := newClient()
		if err != nil {
			return err
		}
		accounts, err := w.Personal().ListAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, a := range accounts {
			if sum, err := utils.ToChecksumAddress(a); err == nil {
				a = sum
			}
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [address]",
	Short: "Unlock a node held account",
	Long: `Unlock a node held account for the given duration. The passphrase is read interactively.

Example:
  web3cli unlock 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed --duration 10m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := args[0]
		if !utils.IsHexAddress(addr) {
			return fmt.Errorf("invalid address %q", addr)
		}

		passphrase, err := askPassphrase(addr)
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}

		ctx, cancel := requestContext(cmd, "unlock")
		defer cancel()

		w, err := newClient()
		if err != nil {
			return err
		}
		ok, err := w.Personal().UnlockAccount(ctx, addr, passphrase, unlockDuration)
		if err != nil {
			logtrace.Error(ctx, "Failed to unlock account", logtrace.Fields{
				"address":           addr,
				logtrace.FieldError: err.Error(),
			})
			return fmt.Errorf("failed to unlock account: %w", err)
		}
		if !ok {
			return fmt.Errorf("node refused to unlock %s", addr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", addr)
		return nil
	},
}

func init() {
	unlockCmd.Flags().DurationVar(&unlockDuration, "duration", 5*time.Minute, "how long the account stays unlocked (0 until locked)")

	rootCmd.AddCommand(accountsCmd, unlockCmd)
}
