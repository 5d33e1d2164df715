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

// LifecycleState is an emulated device lifecycle state.
type LifecycleState string

const (
	StateRaw        LifecycleState = "RAW"
	StateTestLocked LifecycleState = "TEST_LOCKED"
	StateDev        LifecycleState = "DEV"
	StateProd       LifecycleState = "PROD"
	StateProdEnd    LifecycleState = "PROD_END"
	StateRMA        LifecycleState = "RMA"
	StateScrap      LifecycleState = "SCRAP"
)

// Lifecycle emulates the device lifecycle controller. Provisioning is
// permitted in the DEV, PROD, PROD_END and RMA states.
type Lifecycle struct {
	mu    sync.Mutex
	state LifecycleState
}

func newLifecycle(state LifecycleState) *Lifecycle {
	return &Lifecycle{state: state}
}

// CheckOperational returns nil if the device lifecycle state permits
// provisioning.
func (l *Lifecycle) CheckOperational() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StateDev, StateProd, StateProdEnd, StateRMA:
		return nil
	default:
		return fmt.Errorf("emulator: lifecycle state %s is not operational", l.state)
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() LifecycleState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SetState forces the lifecycle state. On real silicon lifecycle
// transitions go through the lifecycle controller's token protocol;
// the emulator just flips the value.
func (l *Lifecycle) SetState(state LifecycleState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
}
