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

import "errors"

var (
	// ErrIneligibleLifecycle is returned when the device lifecycle state
	// does not permit provisioning. Fatal; requires an external
	// lifecycle transition before any retry.
	ErrIneligibleLifecycle = errors.New("secelem: device lifecycle state does not permit provisioning")

	// ErrInvalidShares is returned when the root key share sanity check
	// fails. The error is collective: it carries no indication of which
	// word or which condition tripped. Fatal for the attempt; the
	// caller may retry the whole flow with fresh entropy draws.
	ErrInvalidShares = errors.New("secelem: root key share validation failed")

	// ErrWriteVerifyFailed is returned when a drawn secret contains a
	// weak word or the flash readback does not match what was written.
	// Fatal for the attempt; retryable by the caller.
	ErrWriteVerifyFailed = errors.New("secelem: secret write verification failed")

	// ErrLockQueryFailed is returned when the partition lock-state query
	// itself fails. Query faults are surfaced, never treated as
	// "not locked".
	ErrLockQueryFailed = errors.New("secelem: partition lock state query failed")

	// ErrLockFailed is returned when the partition digest commit fails.
	ErrLockFailed = errors.New("secelem: partition lock failed")

	// ErrSharesWrittenUnlocked is returned when the lock fails after
	// both root key shares were already written. The partition is then
	// populated but unlocked and unreadable; a blind retry would
	// program new shares over already-programmed words. The embedding
	// system must decide between retry and device replacement.
	ErrSharesWrittenUnlocked = errors.New("secelem: root key shares written but partition not locked")

	// ErrNotLocked is returned by the completion check when the target
	// partition's digest is absent.
	ErrNotLocked = errors.New("secelem: partition is not locked")
)
