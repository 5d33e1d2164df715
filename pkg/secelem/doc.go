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

// Package secelem defines the device-side collaborator interfaces and
// types used to provision secrets into a secure element.
//
// The package models the four peripherals the provisioning flow talks
// to - the entropy source, the one-time-programmable (OTP) store, the
// flash info region controller, and the device lifecycle controller -
// as explicit handles the caller constructs and passes in. Nothing in
// this package reaches for a global device; a process may hold handles
// to several devices (for example the in-memory emulator next to real
// hardware) without interference.
//
// Hardware peculiarities that matter to callers:
//
//   - The OTP store is write-only from this flow's perspective. Once a
//     protected partition is populated it cannot be read back, and once
//     its digest is committed via Lock it can never be written again.
//   - Flash info pages behave like ordinary flash: erase, program,
//     read. They are treated as logically single-write per device
//     lifetime by the provisioning flow, not by the driver.
//   - The entropy source follows a DRBG-style contract: it must be
//     instantiated before generating, may be reseeded in place, and is
//     single-consumer while instantiated.
package secelem
