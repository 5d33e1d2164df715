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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
	"github.com/jeremyhahn/go-secelem/pkg/secelem/mocks"
)

const seedWords = 8

func TestWriteSeed(t *testing.T) {
	entropy := mocks.NewMockEntropySource()
	flash := mocks.NewMockFlashController()

	err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
	require.NoError(t, err)

	assert.Equal(t, 1, entropy.InstantiateCalls)
	assert.Equal(t, []int{seedWords}, entropy.GenerateCalls)
	assert.Equal(t, 1, entropy.UninstantiateCalls)
	assert.Equal(t, [][3]uint32{{1, 0, 0}}, flash.PrepareRegionCalls)
	assert.Len(t, flash.EraseAndProgramCalls, 1)
	assert.Len(t, flash.ReadCalls, 1)
}

func TestWriteSeed_WeakWordZero(t *testing.T) {
	entropy := mocks.NewMockEntropySource()
	entropy.GenerateFunc = func(wordCount int) ([]uint32, error) {
		words := make([]uint32, wordCount)
		for i := range words {
			words[i] = uint32(i + 1)
		}
		words[3] = 0
		return words, nil
	}
	flash := mocks.NewMockFlashController()

	err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
	assert.ErrorIs(t, err, secelem.ErrWriteVerifyFailed)
}

func TestWriteSeed_WeakWordAllOnes(t *testing.T) {
	entropy := mocks.NewMockEntropySource()
	entropy.GenerateFunc = func(wordCount int) ([]uint32, error) {
		words := make([]uint32, wordCount)
		for i := range words {
			words[i] = uint32(i + 1)
		}
		words[0] = ^uint32(0)
		return words, nil
	}
	flash := mocks.NewMockFlashController()

	err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
	assert.ErrorIs(t, err, secelem.ErrWriteVerifyFailed)
}

// A readback mismatch at the first and at the last word must both fail
// the whole call.
func TestWriteSeed_ReadbackMismatch(t *testing.T) {
	for _, corruptIndex := range []int{0, seedWords - 1} {
		entropy := mocks.NewMockEntropySource()
		flash := mocks.NewMockFlashController()

		var programmed []uint32
		flash.EraseAndProgramFunc = func(addr uint32, words []uint32) error {
			programmed = append([]uint32(nil), words...)
			return nil
		}
		flash.ReadFunc = func(addr uint32, wordCount int) ([]uint32, error) {
			out := append([]uint32(nil), programmed[:wordCount]...)
			out[corruptIndex] ^= 0x2
			return out, nil
		}

		err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
		assert.ErrorIs(t, err, secelem.ErrWriteVerifyFailed,
			"corrupt word index %d", corruptIndex)
	}
}

func TestWriteSeed_EntropyError(t *testing.T) {
	entropy := mocks.NewMockEntropySource()
	entropy.InstantiateFunc = func(bool) error {
		return errors.New("csrng fault")
	}
	flash := mocks.NewMockFlashController()

	err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
	assert.Error(t, err)
	assert.Empty(t, flash.PrepareRegionCalls)
}

func TestWriteSeed_ReadError(t *testing.T) {
	entropy := mocks.NewMockEntropySource()
	flash := mocks.NewMockFlashController()
	flash.ReadFunc = func(addr uint32, wordCount int) ([]uint32, error) {
		return nil, errors.New("ecc fault")
	}

	err := writeSeed(entropy, flash, 1, 0, 0, seedWords)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, secelem.ErrWriteVerifyFailed)
}
