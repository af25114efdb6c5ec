package cmd

import (
	"fmt"

	"github.com/LumeraProtocol/web3go/pkg/web3"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and supported transports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, web3.VersionInfo())
		fmt.Fprintf(out, "transports: %v\n", web3.TransportKinds())
		if t := web3.GivenTransport(); t != nil {
			fmt.Fprintln(out, "host provided transport detected")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
