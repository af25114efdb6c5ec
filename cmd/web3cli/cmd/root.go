package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/LumeraProtocol/web3go/pkg/logtrace"
	"github.com/LumeraProtocol/web3go/pkg/web3"
	"github.com/LumeraProtocol/web3go/pkg/web3/config"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	v         = viper.New()
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "web3cli",
	Short:        "Query and watch an Ethereum node over HTTP, WebSocket, IPC or gRPC",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.SetupLogging("web3cli"); err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logtrace.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.web3go/config.yaml)")
	config.BindFlags(rootCmd, v)
}

// newClient builds the facade for the configured provider.
func newClient(opts ...web3.Option) (*web3.Web3, error) {
	opts = append([]web3.Option{web3.WithTransportOptions(appConfig.TransportOptions()...)}, opts...)
	w, err := web3.New(appConfig.Provider, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", appConfig.Provider, err)
	}
	return w, nil
}

// requestContext bounds a one-shot command by the configured request timeout.
func requestContext(cmd *cobra.Command, name string) (context.Context, context.CancelFunc) {
	ctx := logtrace.CtxWithCorrelationID(cmd.Context(), name)
	timeout := appConfig.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func logTransportChange(old, current providers.Transport) {
	logtrace.Info(context.Background(), "Switched transport", logtrace.Fields{
		"from":                  providers.KindOf(old),
		logtrace.FieldTransport: providers.KindOf(current),
	})
}
