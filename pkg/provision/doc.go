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

// Package provision implements the one-shot, fail-closed device-secret
// provisioning sequence for a secure element.
//
// A single call to Provisioner.Start generates irreversible root-key
// material as a two-of-two masked split, programs both shares into a
// protected OTP partition, programs the creator and owner secret seeds
// into write-once flash info pages, verifies every write, and commits
// the partition digest lock. The lock is the commit point of the whole
// sequence: it is issued last, exactly once per device, for the life of
// the device. Any failure before the lock leaves the partition writable
// for a retried attempt; nothing is rolled back because nothing can be.
//
// Provisioner.End is an independent completion check that re-queries
// the lock state, letting a caller assert "provisioning, if it ran,
// committed" after a power loss between steps.
//
// The flow is single-threaded and synchronous. It assumes exclusive
// ownership of the entropy source, OTP store and flash controller for
// the duration of the call; serializing it against any other use of
// those peripherals is the embedding system's responsibility.
package provision
