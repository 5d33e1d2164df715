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
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// otpPartition holds the emulated state of one protected partition.
// words maps byte offsets to programmed 64-bit words; digest is present
// iff the partition has been locked.
type otpPartition struct {
	words  map[int]uint64
	digest []byte
}

// OTP emulates the one-time programmable store. Words are write-once:
// reprogramming an already-programmed offset fails even with the same
// value, and a locked partition rejects all writes. There is no read
// path, matching the hardware's unreadable protected partitions.
type OTP struct {
	mu         sync.Mutex
	partitions map[secelem.Partition]*otpPartition
}

func newOTP() *OTP {
	return &OTP{partitions: make(map[secelem.Partition]*otpPartition)}
}

func (o *OTP) partition(p secelem.Partition) *otpPartition {
	part := o.partitions[p]
	if part == nil {
		part = &otpPartition{words: make(map[int]uint64)}
		o.partitions[p] = part
	}
	return part
}

// IsLocked reports whether the partition digest has been committed.
func (o *OTP) IsLocked(p secelem.Partition) (secelem.LockState, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.partition(p).digest != nil {
		return secelem.Locked, nil
	}
	return secelem.Unlocked, nil
}

// Write64 programs words at the given byte offset. Each 64-bit word
// location can be programmed exactly once.
func (o *OTP) Write64(p secelem.Partition, offset int, words []uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if offset < 0 || offset%8 != 0 {
		return fmt.Errorf("emulator: otp offset %d must be a non-negative multiple of 8", offset)
	}
	part := o.partition(p)
	if part.digest != nil {
		return fmt.Errorf("emulator: otp partition %s is locked", p)
	}
	for i := range words {
		if _, programmed := part.words[offset+i*8]; programmed {
			return fmt.Errorf("emulator: otp word at %s+%#x already programmed",
				p, offset+i*8)
		}
	}
	for i, w := range words {
		part.words[offset+i*8] = w
	}
	return nil
}

// Lock computes and commits the partition digest over the programmed
// words. Irreversible: there is no unlock.
func (o *OTP) Lock(p secelem.Partition) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	part := o.partition(p)
	if part.digest != nil {
		return fmt.Errorf("emulator: otp partition %s is already locked", p)
	}

	offsets := make([]int, 0, len(part.words))
	for off := range part.words {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	digest := sha256.New()
	var buf [8]byte
	for _, off := range offsets {
		binary.LittleEndian.PutUint64(buf[:], uint64(off))
		digest.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], part.words[off])
		digest.Write(buf[:])
	}
	part.digest = digest.Sum(nil)
	return nil
}

// Digest returns a copy of the committed partition digest, or nil if
// the partition is unlocked. Test hook only; real hardware exposes the
// digest solely as a presence bit to this flow.
func (o *OTP) Digest(p secelem.Partition) []byte {
	o.mu.Lock()
	defer o.mu.Unlock()

	src := o.partition(p).digest
	if src == nil {
		return nil
	}
	return append([]byte(nil), src...)
}
