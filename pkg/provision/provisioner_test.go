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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
	"github.com/jeremyhahn/go-secelem/pkg/secelem/mocks"
)

type testDevice struct {
	entropy   *mocks.MockEntropySource
	otp       *mocks.MockOTPController
	flash     *mocks.MockFlashController
	lifecycle *mocks.MockLifecycleController
}

func newTestDevice() *testDevice {
	return &testDevice{
		entropy:   mocks.NewMockEntropySource(),
		otp:       mocks.NewMockOTPController(),
		flash:     mocks.NewMockFlashController(),
		lifecycle: mocks.NewMockLifecycleController(),
	}
}

func (d *testDevice) provisioner(t *testing.T) *Provisioner {
	t.Helper()
	p, err := New(&Config{
		Profile:   secelem.DefaultProfile(),
		Entropy:   d.entropy,
		OTP:       d.otp,
		Flash:     d.flash,
		Lifecycle: d.lifecycle,
		DeviceID:  "test-device-0",
	})
	require.NoError(t, err)
	return p
}

func TestNew_NilConfig(t *testing.T) {
	p, err := New(nil)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestNew_MissingCollaborators(t *testing.T) {
	device := newTestDevice()
	base := Config{
		Profile:   secelem.DefaultProfile(),
		Entropy:   device.entropy,
		OTP:       device.otp,
		Flash:     device.flash,
		Lifecycle: device.lifecycle,
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"entropy", func(c *Config) { c.Entropy = nil }},
		{"otp", func(c *Config) { c.OTP = nil }},
		{"flash", func(c *Config) { c.Flash = nil }},
		{"lifecycle", func(c *Config) { c.Lifecycle = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base
			tt.mutate(&config)
			p, err := New(&config)
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestNew_InvalidProfile(t *testing.T) {
	device := newTestDevice()
	profile := secelem.DefaultProfile()
	profile.RootKeyShareBytes = 33

	p, err := New(&Config{
		Profile:   profile,
		Entropy:   device.entropy,
		OTP:       device.otp,
		Flash:     device.flash,
		Lifecycle: device.lifecycle,
	})
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestStart(t *testing.T) {
	device := newTestDevice()
	p := device.provisioner(t)

	err := p.Start(context.Background())
	require.NoError(t, err)

	profile := secelem.DefaultProfile()

	// Two seed pages prepared, in creator then owner order.
	assert.Equal(t, [][3]uint32{
		{profile.CreatorSeedPageID, profile.FlashBankID, profile.FlashPartitionID},
		{profile.OwnerSeedPageID, profile.FlashBankID, profile.FlashPartitionID},
	}, device.flash.PrepareRegionCalls)

	// Both shares written, partition locked.
	assert.Len(t, device.otp.Write64Calls, 2)
	assert.Equal(t, []secelem.Partition{profile.RootKeyPartition}, device.otp.LockCalls)
	assert.Equal(t, 1, device.entropy.InitContinuousModeCalls)

	// Completion check agrees.
	assert.NoError(t, p.End(context.Background()))
}

// A second Start against a provisioned device succeeds without drawing
// entropy or writing anything.
func TestStart_Idempotent(t *testing.T) {
	device := newTestDevice()
	p := device.provisioner(t)

	require.NoError(t, p.Start(context.Background()))
	draws := device.entropy.TotalDraws()
	writes := len(device.otp.Write64Calls)
	programs := len(device.flash.EraseAndProgramCalls)

	require.NoError(t, p.Start(context.Background()))
	assert.Equal(t, draws, device.entropy.TotalDraws())
	assert.Len(t, device.otp.Write64Calls, writes)
	assert.Len(t, device.flash.EraseAndProgramCalls, programs)
}

func TestStart_IneligibleLifecycle(t *testing.T) {
	device := newTestDevice()
	device.lifecycle.CheckOperationalFunc = func() error {
		return errors.New("lifecycle state RAW")
	}
	p := device.provisioner(t)

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, secelem.ErrIneligibleLifecycle)
	assert.Zero(t, device.entropy.TotalDraws())
	assert.Empty(t, device.otp.Write64Calls)
	assert.Empty(t, device.flash.EraseAndProgramCalls)
	assert.Empty(t, device.otp.IsLockedCalls)
}

func TestStart_LockQueryError(t *testing.T) {
	device := newTestDevice()
	device.otp.IsLockedFunc = func(secelem.Partition) (secelem.LockState, error) {
		return secelem.Unlocked, errors.New("otp controller fault")
	}
	p := device.provisioner(t)

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, secelem.ErrLockQueryFailed)
	assert.Zero(t, device.entropy.TotalDraws())
}

func TestStart_EntropyInitError(t *testing.T) {
	device := newTestDevice()
	device.entropy.InitContinuousModeFunc = func() error {
		return errors.New("health test failed")
	}
	p := device.provisioner(t)

	err := p.Start(context.Background())
	assert.Error(t, err)
	assert.Empty(t, device.flash.EraseAndProgramCalls)
	assert.Empty(t, device.otp.Write64Calls)
}

// A creator seed failure stops the sequence before the owner seed and
// the root key shares.
func TestStart_CreatorSeedFailureStopsSequence(t *testing.T) {
	device := newTestDevice()
	device.flash.EraseAndProgramFunc = func(uint32, []uint32) error {
		return errors.New("program timeout")
	}
	p := device.provisioner(t)

	err := p.Start(context.Background())
	assert.Error(t, err)
	assert.Len(t, device.flash.PrepareRegionCalls, 1)
	assert.Empty(t, device.otp.Write64Calls)
	assert.Empty(t, device.otp.LockCalls)
}

func TestStart_LockFailureSurfacesBothSentinels(t *testing.T) {
	device := newTestDevice()
	device.otp.LockFunc = func(secelem.Partition) error {
		return errors.New("digest commit fault")
	}
	p := device.provisioner(t)

	err := p.Start(context.Background())
	assert.ErrorIs(t, err, secelem.ErrSharesWrittenUnlocked)
	assert.ErrorIs(t, err, secelem.ErrLockFailed)

	// The device is now populated but unlocked; the completion check
	// must not report success.
	assert.ErrorIs(t, p.End(context.Background()), secelem.ErrNotLocked)
}

func TestEnd_NotLocked(t *testing.T) {
	device := newTestDevice()
	p := device.provisioner(t)

	assert.ErrorIs(t, p.End(context.Background()), secelem.ErrNotLocked)
}

func TestEnd_QueryError(t *testing.T) {
	device := newTestDevice()
	device.otp.IsLockedFunc = func(secelem.Partition) (secelem.LockState, error) {
		return secelem.Unlocked, errors.New("otp controller fault")
	}
	p := device.provisioner(t)

	err := p.End(context.Background())
	assert.ErrorIs(t, err, secelem.ErrLockQueryFailed)
	assert.NotErrorIs(t, err, secelem.ErrNotLocked)
}

func TestEnd_Locked(t *testing.T) {
	device := newTestDevice()
	device.otp.SetLocked(secelem.DefaultProfile().RootKeyPartition)
	p := device.provisioner(t)

	assert.NoError(t, p.End(context.Background()))
}
