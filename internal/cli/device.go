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
	"fmt"

	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-secelem/internal/config"
	"github.com/jeremyhahn/go-secelem/pkg/emulator"
	"github.com/jeremyhahn/go-secelem/pkg/logging"
	"github.com/jeremyhahn/go-secelem/pkg/metrics"
	"github.com/jeremyhahn/go-secelem/pkg/provision"
	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// target bundles the provisioner with the device handles the status
// command inspects directly.
type target struct {
	Serial      string
	Provisioner *provision.Provisioner
	OTP         secelem.OTPController
	Lifecycle   secelem.LifecycleController
	Profile     secelem.Profile
}

// openTarget loads the configuration, opens the configured device
// transport and builds a Provisioner for it.
func openTarget() (*target, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}

	// Flag/env values win over file values.
	if transport := viper.GetString("transport"); transport != "" {
		cfg.Device.Transport = transport
	}
	if serial := viper.GetString("serial"); serial != "" {
		cfg.Device.Serial = serial
	}
	if viper.GetBool("verbose") {
		cfg.Logging.Debug = true
	}

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	switch cfg.Device.Transport {
	case "emulator":
		device := emulator.New(&emulator.Config{Serial: cfg.Device.Serial})
		provisioner, err := provision.New(&provision.Config{
			Profile:   cfg.Profile,
			Entropy:   device.Entropy(),
			OTP:       device.OTP(),
			Flash:     device.Flash(),
			Lifecycle: device.Lifecycle(),
			DeviceID:  device.Serial(),
			Logger:    logging.NewLogger(cfg.Logging.Debug),
		})
		if err != nil {
			return nil, err
		}
		return &target{
			Serial:      device.Serial(),
			Provisioner: provisioner,
			OTP:         device.OTP(),
			Lifecycle:   device.Lifecycle(),
			Profile:     cfg.Profile,
		}, nil
	default:
		return nil, fmt.Errorf("unknown device transport: %s", cfg.Device.Transport)
	}
}
