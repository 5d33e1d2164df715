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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues(
		OpSeedWrite, "test-device", StatusSuccess))

	RecordOperation(OpSeedWrite, "test-device", StatusSuccess, 0.01)

	after := testutil.ToFloat64(OperationsTotal.WithLabelValues(
		OpSeedWrite, "test-device", StatusSuccess))
	assert.Equal(t, before+1, after)
}

func TestRecordError(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(ErrorsTotal.WithLabelValues(
		OpRootKeyConfigure, "test-device", "invalid_shares"))

	RecordError(OpRootKeyConfigure, "test-device", "invalid_shares")

	after := testutil.ToFloat64(ErrorsTotal.WithLabelValues(
		OpRootKeyConfigure, "test-device", "invalid_shares"))
	assert.Equal(t, before+1, after)
}

func TestDisable(t *testing.T) {
	Disable()
	defer Enable()

	assert.False(t, IsEnabled())

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues(
		OpProvisionStart, "disabled-device", StatusSuccess))

	RecordOperation(OpProvisionStart, "disabled-device", StatusSuccess, 0.01)
	RecordError(OpProvisionStart, "disabled-device", "some_error")
	RecordProvisioned()
	RecordSkipped()

	after := testutil.ToFloat64(OperationsTotal.WithLabelValues(
		OpProvisionStart, "disabled-device", StatusSuccess))
	assert.Equal(t, before, after)
}

func TestRecordProvisioned(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(DevicesProvisionedTotal)
	RecordProvisioned()
	assert.Equal(t, before+1, testutil.ToFloat64(DevicesProvisionedTotal))
}
