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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// share returns a buffer of n words counting up from start.
func share(n int, start uint64) []uint64 {
	words := make([]uint64, n)
	for i := range words {
		words[i] = start + uint64(i)
	}
	return words
}

func TestValidateShares_Valid(t *testing.T) {
	share0 := share(4, 1)
	share1 := share(4, 100)

	assert.NoError(t, ValidateShares(share0, share1, secelem.ShareCheckStrict))
	assert.NoError(t, ValidateShares(share0, share1, secelem.ShareCheckLegacy))
}

func TestValidateShares_EqualWordPair(t *testing.T) {
	share0 := share(4, 1)
	share1 := share(4, 100)
	share1[2] = share0[2]

	err := ValidateShares(share0, share1, secelem.ShareCheckStrict)
	assert.ErrorIs(t, err, secelem.ErrInvalidShares)
}

func TestValidateShares_WeakWordsShare0(t *testing.T) {
	for _, weak := range []uint64{0, ^uint64(0)} {
		share0 := share(4, 1)
		share1 := share(4, 100)
		share0[3] = weak

		err := ValidateShares(share0, share1, secelem.ShareCheckStrict)
		assert.ErrorIs(t, err, secelem.ErrInvalidShares)

		err = ValidateShares(share0, share1, secelem.ShareCheckLegacy)
		assert.ErrorIs(t, err, secelem.ErrInvalidShares)
	}
}

func TestValidateShares_AllOnesShare1(t *testing.T) {
	share0 := share(4, 1)
	share1 := share(4, 100)
	share1[1] = ^uint64(0)

	assert.ErrorIs(t, ValidateShares(share0, share1, secelem.ShareCheckStrict),
		secelem.ErrInvalidShares)
	assert.ErrorIs(t, ValidateShares(share0, share1, secelem.ShareCheckLegacy),
		secelem.ErrInvalidShares)
}

// The legacy rule pins the zero check on share1 to word index 0, so an
// interior zero word in share1 passes legacy validation but fails
// strict validation. This is the acceptance-set difference between the
// two modes.
func TestValidateShares_InteriorZeroShare1(t *testing.T) {
	share0 := share(4, 1)
	share1 := share(4, 100)
	share1[2] = 0

	assert.ErrorIs(t, ValidateShares(share0, share1, secelem.ShareCheckStrict),
		secelem.ErrInvalidShares)
	assert.NoError(t, ValidateShares(share0, share1, secelem.ShareCheckLegacy))
}

func TestValidateShares_ZeroFirstWordShare1(t *testing.T) {
	share0 := share(4, 1)
	share1 := share(4, 100)
	share1[0] = 0

	assert.ErrorIs(t, ValidateShares(share0, share1, secelem.ShareCheckStrict),
		secelem.ErrInvalidShares)
	assert.ErrorIs(t, ValidateShares(share0, share1, secelem.ShareCheckLegacy),
		secelem.ErrInvalidShares)
}

func TestValidateShares_LengthMismatch(t *testing.T) {
	assert.ErrorIs(t, ValidateShares(share(4, 1), share(3, 100), secelem.ShareCheckStrict),
		secelem.ErrInvalidShares)
	assert.ErrorIs(t, ValidateShares(nil, nil, secelem.ShareCheckStrict),
		secelem.ErrInvalidShares)
}

func TestPackShare(t *testing.T) {
	words := []uint32{0x11223344, 0x55667788, 0xdeadbeef, 0x00000001}
	packed := packShare(words)

	assert.Len(t, packed, 2)
	assert.Equal(t, uint64(0x5566778811223344), packed[0])
	assert.Equal(t, uint64(0x00000001deadbeef), packed[1])
}

func TestZeroize(t *testing.T) {
	words64 := share(4, 1)
	words32 := []uint32{1, 2, 3}

	zeroize(words64, words32)

	for _, w := range words64 {
		assert.Zero(t, w)
	}
	for _, w := range words32 {
		assert.Zero(t, w)
	}
}
