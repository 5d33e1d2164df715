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

package emulator

import (
	"fmt"
	"sync"
)

const (
	// flashPageBytes is the emulated info page size.
	flashPageBytes = 2048

	// flashPageWords is the page size in 32-bit words.
	flashPageWords = flashPageBytes / 4

	// flashBankStride separates bank address ranges.
	flashBankStride = 0x80000

	// erasedWord is the value of every word in an erased page.
	erasedWord = ^uint32(0)
)

// flashPage holds the emulated state of one info page.
type flashPage struct {
	scrambled bool
	words     []uint32
}

// Flash emulates the write-once flash info region controller. Pages
// must be prepared (scramble-configured and erased) before they can be
// programmed or read.
type Flash struct {
	mu    sync.Mutex
	pages map[uint32]*flashPage
}

func newFlash() *Flash {
	return &Flash{pages: make(map[uint32]*flashPage)}
}

// pageAddress derives the deterministic base address of an info page.
func pageAddress(pageID, bankID uint32) uint32 {
	return bankID*flashBankStride + pageID*flashPageBytes
}

// PrepareRegion configures the page for scrambled access, erases it and
// returns its base address.
func (f *Flash) PrepareRegion(pageID, bankID, partitionID uint32) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	address := pageAddress(pageID, bankID)
	page := &flashPage{scrambled: true, words: make([]uint32, flashPageWords)}
	for i := range page.words {
		page.words[i] = erasedWord
	}
	f.pages[address] = page
	return address, nil
}

// EraseAndProgram erases the page at addr and programs the given words
// starting at the page base.
func (f *Flash) EraseAndProgram(addr uint32, words []uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[addr]
	if !ok {
		return fmt.Errorf("emulator: flash page at %#x not prepared", addr)
	}
	if len(words) > flashPageWords {
		return fmt.Errorf("emulator: %d words exceed page size %d", len(words), flashPageWords)
	}
	for i := range page.words {
		page.words[i] = erasedWord
	}
	copy(page.words, words)
	return nil
}

// Read returns wordCount words starting at addr.
func (f *Flash) Read(addr uint32, wordCount int) ([]uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[addr]
	if !ok {
		return nil, fmt.Errorf("emulator: flash page at %#x not prepared", addr)
	}
	if wordCount < 0 || wordCount > flashPageWords {
		return nil, fmt.Errorf("emulator: read of %d words out of range", wordCount)
	}
	return append([]uint32(nil), page.words[:wordCount]...), nil
}

// Corrupt flips bits of one programmed word. Test hook for exercising
// the write-verify path; real flash fails this way silently.
func (f *Flash) Corrupt(addr uint32, wordIndex int, xor uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[addr]
	if !ok {
		return fmt.Errorf("emulator: flash page at %#x not prepared", addr)
	}
	if wordIndex < 0 || wordIndex >= flashPageWords {
		return fmt.Errorf("emulator: word index %d out of range", wordIndex)
	}
	page.words[wordIndex] ^= xor
	return nil
}
