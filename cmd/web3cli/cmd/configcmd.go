package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/LumeraProtocol/web3go/pkg/web3/config"
	"github.com/LumeraProtocol/web3go/pkg/web3/providers"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configInitForce bool
	configInitOut   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// askInit is replaced in tests.
var askInit = func(cfg *config.Config) error {
	providerPrompt := &survey.Input{
		Message: "Node provider (http, ws, ipc or grpc):",
		Default: cfg.Provider,
	}
	if err := survey.AskOne(providerPrompt, &cfg.Provider, survey.WithValidator(validateProvider)); err != nil {
		return err
	}

	formatPrompt := &survey.Select{
		Message: "Log format:",
		Options: []string{"text", "json"},
		Default: cfg.Log.Format,
	}
	return survey.AskOne(formatPrompt, &cfg.Log.Format)
}

func validateProvider(ans interface{}) error {
	s, _ := ans.(string)
	_, err := providers.ParseDescriptor(s)
	return err
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitOut
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		}

		cfg := *appConfig
		if err := askInit(&cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(path, &cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configInitOut, "out", "", "where to write the file (default ~/.web3go/config.yaml)")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
