// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secelem.
//
// go-secelem is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "secelem",
	Short: "secelem CLI - Secure element device secret provisioning tool",
	Long: `secelem CLI drives the one-shot device secret provisioning
sequence against a secure element: it programs the creator and owner
secret seeds into write-once flash info pages, writes the masked root
key shares into the protected OTP partition, verifies every write and
commits the irrevocable partition lock.

Supported transports:
  - emulator: in-memory secure element (development and CI)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "",
		"config file (default is $HOME/.secelem.yaml)")
	rootCmd.PersistentFlags().String("transport", "emulator",
		"device transport (emulator)")
	rootCmd.PersistentFlags().String("serial", "",
		"device serial for logs and metrics")
	rootCmd.PersistentFlags().StringP("output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"verbose output")

	// Flags, SECELEM_* environment variables and config-file values are
	// unified through viper; flags win.
	viper.SetEnvPrefix("SECELEM")
	viper.AutomaticEnv()
	for _, flag := range []string{"config", "transport", "serial", "output", "verbose"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(viper.GetString("output"), os.Stderr)
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
	os.Exit(1)
}
