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

// Package mocks provides mock implementations of the secelem
// collaborator interfaces for testing. Each mock ships with sane
// default behavior (an in-memory device that always succeeds) and
// per-method function fields to inject failures or canned data, plus
// call tracking so tests can assert on side effects and ordering.
package mocks

import (
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// MockEntropySource is a mock implementation of secelem.EntropySource.
// By default Generate returns an incrementing, never-zero, never-all-ones
// word pattern so shares and seeds pass validation.
type MockEntropySource struct {
	mu sync.Mutex

	// Configurable behavior
	InstantiateFunc        func(disableHardwareNoise bool) error
	GenerateFunc           func(wordCount int) ([]uint32, error)
	ReseedFunc             func() error
	UninstantiateFunc      func() error
	InitContinuousModeFunc func() error

	// Call tracking
	InstantiateCalls        int
	GenerateCalls           []int
	ReseedCalls             int
	UninstantiateCalls      int
	InitContinuousModeCalls int

	// State
	instantiated bool
	next         uint32
}

// NewMockEntropySource creates a MockEntropySource with default behavior.
func NewMockEntropySource() *MockEntropySource {
	return &MockEntropySource{next: 1}
}

// Instantiate creates the mock DRBG instance.
func (m *MockEntropySource) Instantiate(disableHardwareNoise bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InstantiateCalls++

	if m.InstantiateFunc != nil {
		return m.InstantiateFunc(disableHardwareNoise)
	}
	if m.instantiated {
		return fmt.Errorf("mock entropy: already instantiated")
	}
	m.instantiated = true
	return nil
}

// Generate draws wordCount words from the mock instance.
func (m *MockEntropySource) Generate(wordCount int) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = append(m.GenerateCalls, wordCount)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(wordCount)
	}
	if !m.instantiated {
		return nil, fmt.Errorf("mock entropy: not instantiated")
	}
	words := make([]uint32, wordCount)
	for i := range words {
		words[i] = m.next
		m.next++
		if m.next == 0 || m.next == ^uint32(0) {
			m.next = 1
		}
	}
	return words, nil
}

// Reseed injects fresh conditioning input into the mock instance.
func (m *MockEntropySource) Reseed() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReseedCalls++

	if m.ReseedFunc != nil {
		return m.ReseedFunc()
	}
	if !m.instantiated {
		return fmt.Errorf("mock entropy: not instantiated")
	}
	return nil
}

// Uninstantiate tears down the mock instance.
func (m *MockEntropySource) Uninstantiate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UninstantiateCalls++

	if m.UninstantiateFunc != nil {
		return m.UninstantiateFunc()
	}
	if !m.instantiated {
		return fmt.Errorf("mock entropy: not instantiated")
	}
	m.instantiated = false
	return nil
}

// InitContinuousMode enables the mock's continuous mode.
func (m *MockEntropySource) InitContinuousMode() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitContinuousModeCalls++

	if m.InitContinuousModeFunc != nil {
		return m.InitContinuousModeFunc()
	}
	return nil
}

// TotalDraws returns the total number of words drawn across all
// Generate calls, for asserting "zero entropy draws" preconditions.
func (m *MockEntropySource) TotalDraws() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.GenerateCalls {
		total += n
	}
	return total
}

// otpWrite records one Write64 invocation.
type otpWrite struct {
	Partition secelem.Partition
	Offset    int
	Words     []uint64
}

// MockOTPController is a mock implementation of secelem.OTPController
// backed by an in-memory partition map with one-way lock semantics.
type MockOTPController struct {
	mu sync.Mutex

	// Configurable behavior
	IsLockedFunc func(p secelem.Partition) (secelem.LockState, error)
	Write64Func  func(p secelem.Partition, offset int, words []uint64) error
	LockFunc     func(p secelem.Partition) error

	// Call tracking
	IsLockedCalls []secelem.Partition
	Write64Calls  []otpWrite
	LockCalls     []secelem.Partition

	// State
	locked map[secelem.Partition]bool
	words  map[secelem.Partition]map[int]uint64
}

// NewMockOTPController creates a MockOTPController with default behavior.
func NewMockOTPController() *MockOTPController {
	return &MockOTPController{
		locked: make(map[secelem.Partition]bool),
		words:  make(map[secelem.Partition]map[int]uint64),
	}
}

// IsLocked reports the mock partition lock state.
func (m *MockOTPController) IsLocked(p secelem.Partition) (secelem.LockState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IsLockedCalls = append(m.IsLockedCalls, p)

	if m.IsLockedFunc != nil {
		return m.IsLockedFunc(p)
	}
	if m.locked[p] {
		return secelem.Locked, nil
	}
	return secelem.Unlocked, nil
}

// Write64 programs words into the mock partition.
func (m *MockOTPController) Write64(p secelem.Partition, offset int, words []uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := otpWrite{Partition: p, Offset: offset, Words: append([]uint64(nil), words...)}
	m.Write64Calls = append(m.Write64Calls, record)

	if m.Write64Func != nil {
		return m.Write64Func(p, offset, words)
	}
	if m.locked[p] {
		return fmt.Errorf("mock otp: partition %s is locked", p)
	}
	partition := m.words[p]
	if partition == nil {
		partition = make(map[int]uint64)
		m.words[p] = partition
	}
	for i, w := range words {
		partition[offset+i*8] = w
	}
	return nil
}

// Lock commits the mock partition digest.
func (m *MockOTPController) Lock(p secelem.Partition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LockCalls = append(m.LockCalls, p)

	if m.LockFunc != nil {
		return m.LockFunc(p)
	}
	m.locked[p] = true
	return nil
}

// SetLocked forces the mock partition lock state, for arranging the
// already-provisioned skip path.
func (m *MockOTPController) SetLocked(p secelem.Partition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked[p] = true
}

// WrittenWords returns a copy of the words programmed into the
// partition, keyed by byte offset.
func (m *MockOTPController) WrittenWords(p secelem.Partition) map[int]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int]uint64, len(m.words[p]))
	for off, w := range m.words[p] {
		out[off] = w
	}
	return out
}

// MockFlashController is a mock implementation of
// secelem.FlashController backed by in-memory pages.
type MockFlashController struct {
	mu sync.Mutex

	// Configurable behavior
	PrepareRegionFunc   func(pageID, bankID, partitionID uint32) (uint32, error)
	EraseAndProgramFunc func(addr uint32, words []uint32) error
	ReadFunc            func(addr uint32, wordCount int) ([]uint32, error)

	// Call tracking
	PrepareRegionCalls   [][3]uint32
	EraseAndProgramCalls []uint32
	ReadCalls            []uint32

	// State
	pages map[uint32][]uint32
}

// pageStride separates mock page base addresses.
const pageStride = 0x800

// NewMockFlashController creates a MockFlashController with default behavior.
func NewMockFlashController() *MockFlashController {
	return &MockFlashController{pages: make(map[uint32][]uint32)}
}

// PrepareRegion returns a deterministic base address per page.
func (m *MockFlashController) PrepareRegion(pageID, bankID, partitionID uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PrepareRegionCalls = append(m.PrepareRegionCalls, [3]uint32{pageID, bankID, partitionID})

	if m.PrepareRegionFunc != nil {
		return m.PrepareRegionFunc(pageID, bankID, partitionID)
	}
	return pageID * pageStride, nil
}

// EraseAndProgram stores the words at the mock address.
func (m *MockFlashController) EraseAndProgram(addr uint32, words []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EraseAndProgramCalls = append(m.EraseAndProgramCalls, addr)

	if m.EraseAndProgramFunc != nil {
		return m.EraseAndProgramFunc(addr, words)
	}
	m.pages[addr] = append([]uint32(nil), words...)
	return nil
}

// Read returns the words stored at the mock address.
func (m *MockFlashController) Read(addr uint32, wordCount int) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReadCalls = append(m.ReadCalls, addr)

	if m.ReadFunc != nil {
		return m.ReadFunc(addr, wordCount)
	}
	stored, ok := m.pages[addr]
	if !ok || len(stored) < wordCount {
		return nil, fmt.Errorf("mock flash: no %d words at address %#x", wordCount, addr)
	}
	return append([]uint32(nil), stored[:wordCount]...), nil
}

// MockLifecycleController is a mock implementation of
// secelem.LifecycleController. The default state is operational.
type MockLifecycleController struct {
	mu sync.Mutex

	// Configurable behavior
	CheckOperationalFunc func() error

	// Call tracking
	CheckOperationalCalls int
}

// NewMockLifecycleController creates a MockLifecycleController with
// default (operational) behavior.
func NewMockLifecycleController() *MockLifecycleController {
	return &MockLifecycleController{}
}

// CheckOperational reports the mock lifecycle state.
func (m *MockLifecycleController) CheckOperational() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CheckOperationalCalls++

	if m.CheckOperationalFunc != nil {
		return m.CheckOperationalFunc()
	}
	return nil
}
