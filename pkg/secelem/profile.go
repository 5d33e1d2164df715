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

import "fmt"

// ShareCheckMode selects the root key share validation rule.
type ShareCheckMode string

const (
	// ShareCheckStrict checks every 64-bit word of both shares for
	// 0/all-ones and every word pair for equality. This is the default.
	ShareCheckStrict ShareCheckMode = "strict"

	// ShareCheckLegacy reproduces the silicon firmware's historical
	// check bit-exactly: the zero check on the second share is pinned
	// to word index 0 instead of applied per word. Only useful when a
	// consumer depends on that acceptance set.
	ShareCheckLegacy ShareCheckMode = "legacy"
)

// Profile describes the target device's secret layout: how large the
// root key shares and seeds are and where they live. The zero value is
// not usable; start from DefaultProfile and override as needed.
type Profile struct {
	// RootKeyShareBytes is the size of each root key share in bytes.
	// Dictated by the partition's reserved field size and must divide
	// evenly into 64-bit words.
	RootKeyShareBytes int `json:"root_key_share_bytes" yaml:"root_key_share_bytes"`

	// RootKeyShare0Offset is the byte offset of share 0 relative to the
	// target partition base.
	RootKeyShare0Offset int `json:"root_key_share0_offset" yaml:"root_key_share0_offset"`

	// RootKeyShare1Offset is the byte offset of share 1 relative to the
	// target partition base.
	RootKeyShare1Offset int `json:"root_key_share1_offset" yaml:"root_key_share1_offset"`

	// RootKeyPartition is the protected OTP partition holding both
	// shares. The lock issued at the end of provisioning commits this
	// partition.
	RootKeyPartition Partition `json:"root_key_partition" yaml:"root_key_partition"`

	// SeedBytes is the size of each device secret seed in bytes.
	SeedBytes int `json:"seed_bytes" yaml:"seed_bytes"`

	// CreatorSeedPageID is the flash info page holding the creator
	// secret seed.
	CreatorSeedPageID uint32 `json:"creator_seed_page_id" yaml:"creator_seed_page_id"`

	// OwnerSeedPageID is the flash info page holding the owner secret
	// seed. The value programmed during provisioning is a placeholder;
	// the silicon owner is expected to rotate it during ownership
	// transfer.
	OwnerSeedPageID uint32 `json:"owner_seed_page_id" yaml:"owner_seed_page_id"`

	// FlashBankID is the flash bank holding both seed pages.
	FlashBankID uint32 `json:"flash_bank_id" yaml:"flash_bank_id"`

	// FlashPartitionID is the flash info partition holding both seed
	// pages.
	FlashPartitionID uint32 `json:"flash_partition_id" yaml:"flash_partition_id"`

	// ShareCheck selects the share validation rule. Empty means
	// ShareCheckStrict.
	ShareCheck ShareCheckMode `json:"share_check,omitempty" yaml:"share_check,omitempty"`
}

// DefaultProfile returns the reference device layout: 32-byte root key
// shares at byte offsets 16 and 48 of the SECRET2 partition, and
// 32-byte creator/owner seeds in flash info pages 1 and 2 of bank 0.
func DefaultProfile() Profile {
	return Profile{
		RootKeyShareBytes:   32,
		RootKeyShare0Offset: 16,
		RootKeyShare1Offset: 48,
		RootKeyPartition:    PartitionSecret2,
		SeedBytes:           32,
		CreatorSeedPageID:   1,
		OwnerSeedPageID:     2,
		FlashBankID:         0,
		FlashPartitionID:    0,
		ShareCheck:          ShareCheckStrict,
	}
}

// RootKeyShareWords32 returns the share size in 32-bit words.
func (p Profile) RootKeyShareWords32() int {
	return p.RootKeyShareBytes / 4
}

// RootKeyShareWords64 returns the share size in 64-bit words.
func (p Profile) RootKeyShareWords64() int {
	return p.RootKeyShareBytes / 8
}

// SeedWords returns the seed size in 32-bit words.
func (p Profile) SeedWords() int {
	return p.SeedBytes / 4
}

// Validate checks the profile for internally consistent sizing.
func (p Profile) Validate() error {
	if p.RootKeyShareBytes <= 0 || p.RootKeyShareBytes%8 != 0 {
		return fmt.Errorf("secelem: root key share size %d must be a positive multiple of 8 bytes", p.RootKeyShareBytes)
	}
	if p.RootKeyShare0Offset < 0 || p.RootKeyShare0Offset%8 != 0 {
		return fmt.Errorf("secelem: share0 offset %d must be a non-negative multiple of 8", p.RootKeyShare0Offset)
	}
	if p.RootKeyShare1Offset < 0 || p.RootKeyShare1Offset%8 != 0 {
		return fmt.Errorf("secelem: share1 offset %d must be a non-negative multiple of 8", p.RootKeyShare1Offset)
	}
	lo, hi := p.RootKeyShare0Offset, p.RootKeyShare1Offset
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo < p.RootKeyShareBytes {
		return fmt.Errorf("secelem: share0 and share1 regions overlap")
	}
	if p.SeedBytes <= 0 || p.SeedBytes%4 != 0 {
		return fmt.Errorf("secelem: seed size %d must be a positive multiple of 4 bytes", p.SeedBytes)
	}
	if p.CreatorSeedPageID == p.OwnerSeedPageID {
		return fmt.Errorf("secelem: creator and owner seeds must use distinct flash info pages")
	}
	switch p.ShareCheck {
	case "", ShareCheckStrict, ShareCheckLegacy:
	default:
		return fmt.Errorf("secelem: unknown share check mode %q", p.ShareCheck)
	}
	return nil
}
