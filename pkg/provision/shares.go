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

import "github.com/jeremyhahn/go-secelem/pkg/secelem"

const (
	allOnes32 = ^uint32(0)
	allOnes64 = ^uint64(0)
)

// ValidateShares performs the statistical sanity check on a masked
// secret held as two equal-length shares. It catches a broken entropy
// source or a masking bug, not an attacker: every 64-bit word pair must
// differ, and no word may be all-zero or all-one.
//
// The check is pure and its error is collective. It never reports which
// word or which condition failed, so a caller cannot be turned into a
// side channel on the share contents. The whole buffer is always
// scanned; there is no early exit on the first violation.
//
// ShareCheckLegacy reproduces the historical firmware behavior where
// the zero check on share1 is pinned to word index 0 rather than
// applied per word. That acceptance set admits shares with interior zero words in
// share1 and exists only for consumers that depend on it.
func ValidateShares(share0, share1 []uint64, mode secelem.ShareCheckMode) error {
	if len(share0) != len(share1) || len(share0) == 0 {
		return secelem.ErrInvalidShares
	}
	foundError := false
	for i := range share0 {
		foundError = foundError || share0[i] == share1[i]
		foundError = foundError || share0[i] == allOnes64 || share0[i] == 0
		if mode == secelem.ShareCheckLegacy {
			foundError = foundError || share1[i] == allOnes64 || share1[0] == 0
		} else {
			foundError = foundError || share1[i] == allOnes64 || share1[i] == 0
		}
	}
	if foundError {
		return secelem.ErrInvalidShares
	}
	return nil
}

// packShare reinterprets drawn 32-bit words as 64-bit words,
// little-endian, the way the hardware lays the share out in the store.
func packShare(words []uint32) []uint64 {
	packed := make([]uint64, len(words)/2)
	for i := range packed {
		packed[i] = uint64(words[2*i]) | uint64(words[2*i+1])<<32
	}
	return packed
}

// zeroize clears secret material from working memory.
func zeroize(words64 []uint64, words32 []uint32) {
	for i := range words64 {
		words64[i] = 0
	}
	for i := range words32 {
		words32[i] = 0
	}
}
