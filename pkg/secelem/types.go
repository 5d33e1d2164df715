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

package secelem

// Partition identifies a protected partition within the one-time
// programmable store.
type Partition int

const (
	// PartitionSecret0 holds test unlock/exit tokens.
	PartitionSecret0 Partition = iota

	// PartitionSecret1 holds flash and SRAM scrambling seeds.
	PartitionSecret1

	// PartitionSecret2 holds the creator root key shares. This is the
	// partition provisioned and locked by the provisioning flow.
	PartitionSecret2
)

// String returns the partition name.
func (p Partition) String() string {
	switch p {
	case PartitionSecret0:
		return "SECRET0"
	case PartitionSecret1:
		return "SECRET1"
	case PartitionSecret2:
		return "SECRET2"
	default:
		return "UNKNOWN"
	}
}

// LockState is the lock state of a protected OTP partition. The
// transition is one-way: once a partition reports Locked it is
// permanently write-inert. Modeled as a typed value rather than a bool
// so "locked implies write-inert" is visible at the type level.
type LockState int

const (
	// Unlocked means the partition digest has not been committed and
	// the partition is still writable.
	Unlocked LockState = iota

	// Locked means the partition digest is present. The partition can
	// never be written again for the life of the device.
	Locked
)

// String returns the lock state name.
func (s LockState) String() string {
	if s == Locked {
		return "locked"
	}
	return "unlocked"
}

// EntropySource is a DRBG-style random word generator backed by a
// hardware noise source.
//
// The Instantiate/Generate/Uninstantiate cycle follows the underlying
// source's single-consumer contract: the instance is exclusively owned
// between Instantiate and Uninstantiate. Reseed forces fresh
// conditioning input into an already-instantiated state without tearing
// it down, which is how the root key configurator decorrelates its two
// share draws.
type EntropySource interface {
	// Instantiate creates a new DRBG instance. Hardware noise input is
	// disabled only when disableHardwareNoise is true; the provisioning
	// flow always passes false.
	Instantiate(disableHardwareNoise bool) error

	// Generate draws wordCount 32-bit words from the instance.
	Generate(wordCount int) ([]uint32, error)

	// Reseed injects fresh conditioning input into the instantiated
	// state.
	Reseed() error

	// Uninstantiate tears down the instance, releasing the source.
	Uninstantiate() error

	// InitContinuousMode re-initializes the entropy complex in
	// continuous, health-monitored mode so that all subsequent draws
	// are covered by ongoing statistical health checks.
	InitContinuousMode() error
}

// OTPController is the driver for the one-time programmable store.
//
// There is deliberately no read primitive: protected partitions become
// unreadable by software once populated, so the provisioning flow
// verifies its source buffers instead of reading back.
type OTPController interface {
	// IsLocked reports whether the partition's digest has been
	// committed, via a digest-presence check.
	IsLocked(p Partition) (LockState, error)

	// Write64 programs 64-bit words into the partition starting at the
	// given byte offset relative to the partition base.
	Write64(p Partition, offset int, words []uint64) error

	// Lock computes and commits the partition digest. Irrevocable for
	// the life of the device.
	Lock(p Partition) error
}

// FlashController is the driver for write-once flash info regions.
type FlashController interface {
	// PrepareRegion puts the target info page into a
	// scramble-configured, erased state and returns its base address.
	PrepareRegion(pageID, bankID, partitionID uint32) (uint32, error)

	// EraseAndProgram erases the page at addr and programs the given
	// words starting at the page base.
	EraseAndProgram(addr uint32, words []uint32) error

	// Read reads wordCount 32-bit words back starting at addr.
	Read(addr uint32, wordCount int) ([]uint32, error)
}

// LifecycleController reports the device lifecycle state. The
// provisioning flow only reads it as a precondition gate and never
// mutates it.
type LifecycleController interface {
	// CheckOperational returns nil if the device is in a lifecycle
	// state that permits provisioning (e.g. DEV or PROD) and an error
	// otherwise.
	CheckOperational() error
}
