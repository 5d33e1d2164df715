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

// Package emulator provides an in-memory secure element implementing
// all four secelem collaborator interfaces: an OTP store with
// write-once word semantics and a digest lock, flash info pages with
// erase/program/read, a DRBG-shaped entropy source, and a lifecycle
// state machine.
//
// The emulator exists so the full provisioning sequence can run on a
// developer workstation or CI runner without silicon, with the hardware
// constraints that make the flow interesting preserved: programmed OTP
// words cannot be reprogrammed, locked partitions reject writes, and
// the entropy source enforces its instantiate-before-generate contract.
package emulator

import (
	"crypto/rand"
	"io"

	"github.com/google/uuid"
)

// Config contains emulator construction parameters. The zero value is
// usable: a random serial, crypto/rand entropy, and the DEV lifecycle
// state.
type Config struct {
	// Serial identifies the emulated device. Empty generates a UUID.
	Serial string

	// Rand is the noise source backing the emulated DRBG. Nil uses
	// crypto/rand.Reader. Tests inject a deterministic reader here.
	Rand io.Reader

	// Lifecycle is the initial lifecycle state. Empty means StateDev.
	Lifecycle LifecycleState
}

// Device is an in-memory secure element. Its OTP, Flash, Entropy and
// Lifecycle components satisfy the corresponding secelem interfaces.
type Device struct {
	serial    string
	otp       *OTP
	flash     *Flash
	entropy   *Entropy
	lifecycle *Lifecycle
}

// New creates an emulated device.
func New(config *Config) *Device {
	if config == nil {
		config = &Config{}
	}
	serial := config.Serial
	if serial == "" {
		serial = uuid.New().String()
	}
	source := config.Rand
	if source == nil {
		source = rand.Reader
	}
	state := config.Lifecycle
	if state == "" {
		state = StateDev
	}
	return &Device{
		serial:    serial,
		otp:       newOTP(),
		flash:     newFlash(),
		entropy:   newEntropy(source),
		lifecycle: newLifecycle(state),
	}
}

// Serial returns the emulated device serial.
func (d *Device) Serial() string {
	return d.serial
}

// OTP returns the emulated one-time programmable store.
func (d *Device) OTP() *OTP {
	return d.otp
}

// Flash returns the emulated flash info controller.
func (d *Device) Flash() *Flash {
	return d.flash
}

// Entropy returns the emulated entropy source.
func (d *Device) Entropy() *Entropy {
	return d.entropy
}

// Lifecycle returns the emulated lifecycle controller.
func (d *Device) Lifecycle() *Lifecycle {
	return d.lifecycle
}
