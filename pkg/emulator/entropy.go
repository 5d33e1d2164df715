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
	"encoding/binary"
	"fmt"
	"io"
	"sync"
)

// Entropy emulates a DRBG-style entropy source. It enforces the
// instantiate-before-generate contract and counts draws so tests can
// assert that skipped or failed provisioning attempts consumed no
// entropy.
type Entropy struct {
	mu           sync.Mutex
	source       io.Reader
	instantiated bool
	continuous   bool
	wordsDrawn   int
}

func newEntropy(source io.Reader) *Entropy {
	return &Entropy{source: source}
}

// Instantiate creates the DRBG instance. The emulated source is
// single-consumer: a second Instantiate without an intervening
// Uninstantiate fails.
func (e *Entropy) Instantiate(disableHardwareNoise bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.instantiated {
		return fmt.Errorf("emulator: entropy already instantiated")
	}
	_ = disableHardwareNoise // the emulated noise path has no test bypass
	e.instantiated = true
	return nil
}

// Generate draws wordCount 32-bit words.
func (e *Entropy) Generate(wordCount int) ([]uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.instantiated {
		return nil, fmt.Errorf("emulator: entropy not instantiated")
	}
	if wordCount <= 0 {
		return nil, fmt.Errorf("emulator: word count %d must be positive", wordCount)
	}
	buf := make([]byte, wordCount*4)
	if _, err := io.ReadFull(e.source, buf); err != nil {
		return nil, fmt.Errorf("emulator: noise source: %w", err)
	}
	words := make([]uint32, wordCount)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	e.wordsDrawn += wordCount
	return words, nil
}

// Reseed injects fresh conditioning input into the instantiated state.
func (e *Entropy) Reseed() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.instantiated {
		return fmt.Errorf("emulator: entropy not instantiated")
	}
	// Conditioning is invisible to consumers; the emulated source has
	// nothing to mix in.
	return nil
}

// Uninstantiate tears down the instance.
func (e *Entropy) Uninstantiate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.instantiated {
		return fmt.Errorf("emulator: entropy not instantiated")
	}
	e.instantiated = false
	return nil
}

// InitContinuousMode re-initializes the entropy complex in continuous,
// health-monitored mode. Any outstanding instance is discarded, as the
// hardware re-initialization does.
func (e *Entropy) InitContinuousMode() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.instantiated = false
	e.continuous = true
	return nil
}

// ContinuousMode reports whether continuous mode has been initialized.
func (e *Entropy) ContinuousMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.continuous
}

// WordsDrawn returns the total number of words generated.
func (e *Entropy) WordsDrawn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wordsDrawn
}
