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

// Package metrics provides Prometheus instrumentation for secure
// element provisioning operations. It exposes per-step operation
// counters, duration histograms and error counters so a manufacturing
// line can monitor yield and failure modes across devices.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all provisioning metrics
	Namespace = "secelem"

	// Label names
	LabelOperation = "operation"
	LabelDevice    = "device"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"

	// Operation names
	OpProvisionStart   = "provision_start"
	OpProvisionEnd     = "provision_end"
	OpLifecycleCheck   = "lifecycle_check"
	OpLockQuery        = "lock_query"
	OpEntropyInit      = "entropy_init"
	OpSeedWrite        = "seed_write"
	OpRootKeyConfigure = "rootkey_configure"
	OpPartitionLock    = "partition_lock"
)

var (
	// OperationsTotal tracks the total number of provisioning operations by
	// type, device, and status. Use RecordOperation to increment this
	// counter with the appropriate labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of provisioning operations by type, device, and status",
		},
		[]string{LabelOperation, LabelDevice, LabelStatus},
	)

	// OperationDuration tracks the duration of provisioning operations in
	// seconds. Buckets span quick lock queries through full flash writes.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of provisioning operations in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{LabelOperation, LabelDevice},
	)

	// ErrorsTotal tracks the total number of errors by operation, device,
	// and error type. Error types should be specific (e.g.
	// "invalid_shares", "write_verify_failed", "ineligible_lifecycle").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, device, and error type",
		},
		[]string{LabelOperation, LabelDevice, LabelErrorType},
	)

	// DevicesProvisionedTotal counts devices whose target partition lock
	// was committed by this process.
	DevicesProvisionedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "devices_provisioned_total",
			Help:      "Total number of devices fully provisioned and locked",
		},
	)

	// DevicesSkippedTotal counts devices found already locked, i.e.
	// provisioned by an earlier attempt.
	DevicesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "devices_skipped_total",
			Help:      "Total number of devices skipped because the target partition was already locked",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a provisioning operation with its duration and
// status. This is the primary function for tracking operational metrics.
//
// Parameters:
//   - operation: The operation name (use Op* constants)
//   - device: The device identifier (e.g. a serial number or "emulator")
//   - status: The operation status (use Status* constants)
//   - duration: The operation duration in seconds
func RecordOperation(operation, device, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, device, status).Inc()
	OperationDuration.WithLabelValues(operation, device).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
//
// Parameters:
//   - operation: The operation during which the error occurred (use Op* constants)
//   - device: The device on which the error occurred
//   - errorType: A specific error type identifier (e.g. "invalid_shares")
func RecordError(operation, device, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, device, errorType).Inc()
}

// RecordProvisioned counts a fully provisioned, locked device.
func RecordProvisioned() {
	if !enabled.Load() {
		return
	}
	DevicesProvisionedTotal.Inc()
}

// RecordSkipped counts a device found already locked.
func RecordSkipped() {
	if !enabled.Load() {
		return
	}
	DevicesSkippedTotal.Inc()
}

// Enable turns on metrics collection. Metrics are enabled by default.
func Enable() {
	enabled.Store(true)
}

// Disable turns off metrics collection. Recording functions become
// no-ops until Enable is called.
func Disable() {
	enabled.Store(false)
}

// IsEnabled reports whether metrics collection is enabled.
func IsEnabled() bool {
	return enabled.Load()
}
