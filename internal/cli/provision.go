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
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-secelem/pkg/correlation"
)

// provisionCmd runs the full provisioning sequence and the completion
// check against the configured device.
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision device secrets and lock the target partition",
	Long: `Runs the one-shot provisioning sequence: lifecycle gate, idempotent
lock-state check, entropy initialization, creator and owner seed writes,
root key share configuration and the irrevocable partition lock. Then
re-queries the lock state to confirm the sequence committed.

Invoking provision against an already-provisioned device succeeds
without drawing entropy or writing anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		dev, err := openTarget()
		if err != nil {
			handleError(err)
		}

		ctx := correlation.WithRunID(context.Background(), correlation.NewID())
		if err := dev.Provisioner.Start(ctx); err != nil {
			handleError(err)
		}
		if err := dev.Provisioner.End(ctx); err != nil {
			handleError(err)
		}

		printer := NewPrinter(viper.GetString("output"), os.Stdout)
		if err := printer.PrintProvisionResult(dev.Serial, dev.Profile.RootKeyPartition); err != nil {
			handleError(err)
		}
	},
}

// verifyCmd runs only the completion check.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that provisioning committed (partition locked)",
	Long: `Queries the target partition lock state and succeeds only if the
partition is locked. Use after a power loss or interrupted provisioning
run to assert that provisioning, if it ran, committed.`,
	Run: func(cmd *cobra.Command, args []string) {
		dev, err := openTarget()
		if err != nil {
			handleError(err)
		}

		if err := dev.Provisioner.End(context.Background()); err != nil {
			handleError(err)
		}

		printer := NewPrinter(viper.GetString("output"), os.Stdout)
		if err := printer.PrintVerifyResult(dev.Serial, dev.Profile.RootKeyPartition); err != nil {
			handleError(err)
		}
	},
}
