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

// Package correlation attaches run identifiers to provisioning
// attempts so every log record produced by one attempt against one
// device can be attributed to it.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// RunIDKey is the context key for storing provisioning run IDs
const RunIDKey contextKey = "run-id"

// WithRunID adds a provisioning run ID to the context.
func WithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, RunIDKey, id)
}

// GetRunID retrieves the run ID from context.
// Returns an empty string if no run ID is found.
func GetRunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// NewID generates a new UUID v4 run ID.
func NewID() string {
	return uuid.New().String()
}

// GetOrGenerate retrieves an existing run ID from context or generates
// a new one if none exists. Entry points use this to ensure a run ID
// is always present without forcing callers to supply one.
func GetOrGenerate(ctx context.Context) string {
	if id := GetRunID(ctx); id != "" {
		return id
	}
	return NewID()
}
