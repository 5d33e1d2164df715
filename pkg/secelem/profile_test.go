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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()
	require.NoError(t, profile.Validate())

	assert.Equal(t, 32, profile.RootKeyShareBytes)
	assert.Equal(t, 16, profile.RootKeyShare0Offset)
	assert.Equal(t, 48, profile.RootKeyShare1Offset)
	assert.Equal(t, PartitionSecret2, profile.RootKeyPartition)
	assert.Equal(t, 8, profile.RootKeyShareWords32())
	assert.Equal(t, 4, profile.RootKeyShareWords64())
	assert.Equal(t, 8, profile.SeedWords())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{
			"default", func(*Profile) {}, "",
		},
		{
			"empty share check defaults to strict",
			func(p *Profile) { p.ShareCheck = "" }, "",
		},
		{
			"legacy share check",
			func(p *Profile) { p.ShareCheck = ShareCheckLegacy }, "",
		},
		{
			"share size zero",
			func(p *Profile) { p.RootKeyShareBytes = 0 },
			"share size",
		},
		{
			"share size not multiple of 8",
			func(p *Profile) { p.RootKeyShareBytes = 20 },
			"share size",
		},
		{
			"misaligned share0 offset",
			func(p *Profile) { p.RootKeyShare0Offset = 17 },
			"share0 offset",
		},
		{
			"negative share1 offset",
			func(p *Profile) { p.RootKeyShare1Offset = -8 },
			"share1 offset",
		},
		{
			"overlapping share regions",
			func(p *Profile) { p.RootKeyShare1Offset = 24 },
			"overlap",
		},
		{
			"seed size not multiple of 4",
			func(p *Profile) { p.SeedBytes = 30 },
			"seed size",
		},
		{
			"creator and owner pages collide",
			func(p *Profile) { p.OwnerSeedPageID = p.CreatorSeedPageID },
			"distinct flash info pages",
		},
		{
			"unknown share check mode",
			func(p *Profile) { p.ShareCheck = "paranoid" },
			"share check mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := DefaultProfile()
			tt.mutate(&profile)
			err := profile.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPartitionString(t *testing.T) {
	assert.Equal(t, "SECRET0", PartitionSecret0.String())
	assert.Equal(t, "SECRET1", PartitionSecret1.String())
	assert.Equal(t, "SECRET2", PartitionSecret2.String())
	assert.Equal(t, "UNKNOWN", Partition(42).String())
}

func TestLockStateString(t *testing.T) {
	assert.Equal(t, "unlocked", Unlocked.String())
	assert.Equal(t, "locked", Locked.String())
}
