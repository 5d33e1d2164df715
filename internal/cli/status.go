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

// statusCmd reports the device's provisioning-relevant state without
// modifying anything.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show device lifecycle and partition lock state",
	Run: func(cmd *cobra.Command, args []string) {
		dev, err := openTarget()
		if err != nil {
			handleError(err)
		}

		state, err := dev.OTP.IsLocked(dev.Profile.RootKeyPartition)
		if err != nil {
			handleError(err)
		}
		lifecycleErr := dev.Lifecycle.CheckOperational()

		printer := NewPrinter(viper.GetString("output"), os.Stdout)
		if err := printer.PrintStatus(dev.Serial, dev.Profile.RootKeyPartition,
			state, lifecycleErr); err != nil {
			handleError(err)
		}
	},
}
