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

// writeSeed draws wordCount fresh random words and programs them into a
// single write-once flash info region, then reads them back and
// verifies.
//
// The entropy instance is torn down immediately after the draw rather
// than held across the flash operations: the underlying source is
// single-consumer while instantiated, and releasing it bounds the
// window in which this flow owns it.
//
// On success the region durably holds exactly the drawn words. There is
// no partial-success state: a single weak word (0 or all-ones) or a
// single readback mismatch anywhere in the buffer fails the whole call
// with ErrWriteVerifyFailed.
func writeSeed(entropy secelem.EntropySource, flash secelem.FlashController,
	pageID, bankID, partitionID uint32, wordCount int) error {

	if err := entropy.Instantiate(false); err != nil {
		return fmt.Errorf("provision: entropy instantiate: %w", err)
	}
	seed, err := entropy.Generate(wordCount)
	if err != nil {
		return fmt.Errorf("provision: entropy generate: %w", err)
	}
	if err := entropy.Uninstantiate(); err != nil {
		return fmt.Errorf("provision: entropy uninstantiate: %w", err)
	}

	address, err := flash.PrepareRegion(pageID, bankID, partitionID)
	if err != nil {
		return fmt.Errorf("provision: flash region setup: %w", err)
	}
	if err := flash.EraseAndProgram(address, seed); err != nil {
		return fmt.Errorf("provision: flash program: %w", err)
	}

	seedResult, err := flash.Read(address, wordCount)
	if err != nil {
		return fmt.Errorf("provision: flash readback: %w", err)
	}

	foundError := len(seed) != wordCount || len(seedResult) != wordCount
	for i := 0; i < len(seed) && i < len(seedResult); i++ {
		foundError = foundError ||
			seed[i] == 0 || seed[i] == allOnes32 || seed[i] != seedResult[i]
	}
	if foundError {
		return secelem.ErrWriteVerifyFailed
	}

	zeroize(nil, seed)
	zeroize(nil, seedResult)
	return nil
}
