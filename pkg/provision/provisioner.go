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

package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-secelem/pkg/correlation"
	"github.com/jeremyhahn/go-secelem/pkg/logging"
	"github.com/jeremyhahn/go-secelem/pkg/metrics"
	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// Config contains the collaborator handles and device layout for a
// Provisioner. All four peripheral handles are required.
type Config struct {
	// Profile describes the target device's secret layout.
	Profile secelem.Profile

	// Entropy is the device's DRBG-style entropy source.
	Entropy secelem.EntropySource

	// OTP is the one-time programmable store driver.
	OTP secelem.OTPController

	// Flash is the write-once flash info region driver.
	Flash secelem.FlashController

	// Lifecycle reports the device lifecycle state.
	Lifecycle secelem.LifecycleController

	// DeviceID identifies the device in logs and metrics, e.g. a serial
	// number. Optional; defaults to "unknown".
	DeviceID string

	// Logger is optional; defaults to logging.DefaultLogger().
	Logger *logging.Logger
}

// Provisioner drives the device-secret provisioning sequence against a
// single device. It holds no state of its own beyond the collaborator
// handles; all durable state lives in the device.
type Provisioner struct {
	profile   secelem.Profile
	entropy   secelem.EntropySource
	otp       secelem.OTPController
	flash     secelem.FlashController
	lifecycle secelem.LifecycleController
	deviceID  string
	logger    *logging.Logger
}

// New creates a Provisioner from the given configuration.
func New(config *Config) (*Provisioner, error) {
	if config == nil {
		return nil, errors.New("provision: config cannot be nil")
	}
	if config.Entropy == nil {
		return nil, errors.New("provision: entropy source cannot be nil")
	}
	if config.OTP == nil {
		return nil, errors.New("provision: otp controller cannot be nil")
	}
	if config.Flash == nil {
		return nil, errors.New("provision: flash controller cannot be nil")
	}
	if config.Lifecycle == nil {
		return nil, errors.New("provision: lifecycle controller cannot be nil")
	}
	if err := config.Profile.Validate(); err != nil {
		return nil, err
	}
	deviceID := config.DeviceID
	if deviceID == "" {
		deviceID = "unknown"
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Provisioner{
		profile:   config.Profile,
		entropy:   config.Entropy,
		otp:       config.OTP,
		flash:     config.Flash,
		lifecycle: config.Lifecycle,
		deviceID:  deviceID,
		logger:    logger,
	}, nil
}

// Start runs the provisioning sequence:
//
//  1. Check device lifecycle eligibility.
//  2. Query the target partition lock state; if already locked, return
//     success immediately. This is the expected outcome of a second
//     invocation against an already-provisioned device, not an error,
//     and no entropy is drawn and nothing is written.
//  3. Re-initialize the entropy complex in continuous, health-monitored
//     mode so subsequent draws are covered by ongoing health testing.
//  4. Write the creator secret seed, then the owner secret seed. The
//     owner seed is a placeholder the silicon owner rotates during
//     ownership transfer; this flow only seeds it.
//  5. Configure and lock the root key shares.
//
// First error wins; no compensating rollback is attempted or possible.
// Retries, if any, belong to the caller re-invoking Start.
func (p *Provisioner) Start(ctx context.Context) error {
	runID := correlation.GetOrGenerate(ctx)
	logger := p.logger.With("device", p.deviceID, "run_id", runID)
	began := time.Now()

	logger.Info("starting device secret provisioning",
		"partition", p.profile.RootKeyPartition.String())

	if err := p.lifecycle.CheckOperational(); err != nil {
		err = fmt.Errorf("%w: %w", secelem.ErrIneligibleLifecycle, err)
		p.fail(metrics.OpLifecycleCheck, began, err)
		return err
	}

	state, err := p.otp.IsLocked(p.profile.RootKeyPartition)
	if err != nil {
		err = fmt.Errorf("%w: %w", secelem.ErrLockQueryFailed, err)
		p.fail(metrics.OpLockQuery, began, err)
		return err
	}
	if state == secelem.Locked {
		logger.Info("partition already locked, skipping provisioning")
		metrics.RecordOperation(metrics.OpProvisionStart, p.deviceID,
			metrics.StatusSkipped, time.Since(began).Seconds())
		metrics.RecordSkipped()
		return nil
	}

	if err := p.entropy.InitContinuousMode(); err != nil {
		p.fail(metrics.OpEntropyInit, began, err)
		return fmt.Errorf("provision: entropy continuous mode init: %w", err)
	}

	logger.Debug("writing creator secret seed")
	if err := writeSeed(p.entropy, p.flash, p.profile.CreatorSeedPageID,
		p.profile.FlashBankID, p.profile.FlashPartitionID,
		p.profile.SeedWords()); err != nil {
		p.fail(metrics.OpSeedWrite, began, err)
		return err
	}

	logger.Debug("writing owner secret seed")
	if err := writeSeed(p.entropy, p.flash, p.profile.OwnerSeedPageID,
		p.profile.FlashBankID, p.profile.FlashPartitionID,
		p.profile.SeedWords()); err != nil {
		p.fail(metrics.OpSeedWrite, began, err)
		return err
	}

	logger.Debug("configuring root key shares")
	if err := configureRootKey(p.entropy, p.otp, p.profile); err != nil {
		p.fail(metrics.OpRootKeyConfigure, began, err)
		return err
	}

	logger.Info("device secret provisioning committed",
		"elapsed", time.Since(began).String())
	metrics.RecordOperation(metrics.OpProvisionStart, p.deviceID,
		metrics.StatusSuccess, time.Since(began).Seconds())
	metrics.RecordProvisioned()
	return nil
}

// End is the completion check: it queries the target partition lock
// state and returns nil iff the partition is locked. Query faults are
// surfaced as ErrLockQueryFailed rather than treated as "not locked".
// A caller uses this to assert that provisioning, if it ran, committed,
// independently of Start's own return value, e.g. after a power loss
// between steps.
func (p *Provisioner) End(ctx context.Context) error {
	began := time.Now()

	state, err := p.otp.IsLocked(p.profile.RootKeyPartition)
	if err != nil {
		metrics.RecordOperation(metrics.OpProvisionEnd, p.deviceID,
			metrics.StatusError, time.Since(began).Seconds())
		metrics.RecordError(metrics.OpProvisionEnd, p.deviceID, "lock_query_failed")
		return fmt.Errorf("%w: %w", secelem.ErrLockQueryFailed, err)
	}
	if state != secelem.Locked {
		metrics.RecordOperation(metrics.OpProvisionEnd, p.deviceID,
			metrics.StatusError, time.Since(began).Seconds())
		metrics.RecordError(metrics.OpProvisionEnd, p.deviceID, "not_locked")
		return secelem.ErrNotLocked
	}
	metrics.RecordOperation(metrics.OpProvisionEnd, p.deviceID,
		metrics.StatusSuccess, time.Since(began).Seconds())
	return nil
}

// fail records a failed step against the whole Start attempt.
func (p *Provisioner) fail(operation string, began time.Time, err error) {
	metrics.RecordOperation(metrics.OpProvisionStart, p.deviceID,
		metrics.StatusError, time.Since(began).Seconds())
	metrics.RecordError(operation, p.deviceID, errorType(err))
}

// errorType maps an error to a stable metrics label.
func errorType(err error) string {
	switch {
	case errors.Is(err, secelem.ErrIneligibleLifecycle):
		return "ineligible_lifecycle"
	case errors.Is(err, secelem.ErrInvalidShares):
		return "invalid_shares"
	case errors.Is(err, secelem.ErrWriteVerifyFailed):
		return "write_verify_failed"
	case errors.Is(err, secelem.ErrSharesWrittenUnlocked):
		return "shares_written_unlocked"
	case errors.Is(err, secelem.ErrLockFailed):
		return "lock_failed"
	case errors.Is(err, secelem.ErrLockQueryFailed):
		return "lock_query_failed"
	default:
		return "peripheral_fault"
	}
}
