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
	"fmt"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// configureRootKey draws the two root key shares, validates them,
// programs both into the target OTP partition and commits the partition
// lock. The root key is defined as share0 XOR share1 and is never
// materialized anywhere.
//
// Between the two draws the entropy instance is reseeded in place
// rather than torn down and re-instantiated. Reseeding forces fresh
// conditioning input between the two correlated draws while reusing the
// instantiated state; two independent instantiations could happen to
// receive correlated noise input.
//
// The shares are validated twice on the same in-memory buffers: once
// before anything is written, and again after both writes. The second
// pass guards against a write step corrupting its source buffers. The
// partition itself is unreadable once populated, so this catches
// implementation bugs, not store failures.
//
// The lock is the last operation. If it fails after both shares were
// written, the error carries both ErrSharesWrittenUnlocked and
// ErrLockFailed: the partition is then populated but unlocked, a state
// this flow cannot detect on a later attempt because the store has no
// read primitive. A retried attempt will draw fresh shares and the
// store driver's own write-conflict fault will surface.
func configureRootKey(entropy secelem.EntropySource, otp secelem.OTPController,
	profile secelem.Profile) error {

	if err := entropy.Instantiate(false); err != nil {
		return fmt.Errorf("provision: entropy instantiate: %w", err)
	}
	words0, err := entropy.Generate(profile.RootKeyShareWords32())
	if err != nil {
		return fmt.Errorf("provision: share0 generate: %w", err)
	}
	if err := entropy.Reseed(); err != nil {
		return fmt.Errorf("provision: entropy reseed: %w", err)
	}
	words1, err := entropy.Generate(profile.RootKeyShareWords32())
	if err != nil {
		return fmt.Errorf("provision: share1 generate: %w", err)
	}
	if err := entropy.Uninstantiate(); err != nil {
		return fmt.Errorf("provision: entropy uninstantiate: %w", err)
	}

	share0 := packShare(words0)
	share1 := packShare(words1)
	defer func() {
		zeroize(share0, words0)
		zeroize(share1, words1)
	}()

	if err := ValidateShares(share0, share1, profile.ShareCheck); err != nil {
		return err
	}

	if err := otp.Write64(profile.RootKeyPartition,
		profile.RootKeyShare0Offset, share0); err != nil {
		return fmt.Errorf("provision: share0 write: %w", err)
	}
	if err := otp.Write64(profile.RootKeyPartition,
		profile.RootKeyShare1Offset, share1); err != nil {
		return fmt.Errorf("provision: share1 write: %w", err)
	}

	if err := ValidateShares(share0, share1, profile.ShareCheck); err != nil {
		return err
	}

	if err := otp.Lock(profile.RootKeyPartition); err != nil {
		return fmt.Errorf("%w: %w: %w",
			secelem.ErrSharesWrittenUnlocked, secelem.ErrLockFailed, err)
	}
	return nil
}
