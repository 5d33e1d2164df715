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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-secelem/pkg/secelem"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintProvisionResult prints the outcome of a committed provisioning run
func (p *Printer) PrintProvisionResult(serial string, partition secelem.Partition) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"device":    serial,
			"partition": partition.String(),
			"locked":    true,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Device %s provisioned: partition %s locked\n",
			serial, partition)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintVerifyResult prints a successful completion check
func (p *Printer) PrintVerifyResult(serial string, partition secelem.Partition) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"device":    serial,
			"partition": partition.String(),
			"locked":    true,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Device %s: partition %s is locked\n", serial, partition)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintStatus prints the device lifecycle and lock state
func (p *Printer) PrintStatus(serial string, partition secelem.Partition,
	state secelem.LockState, lifecycleErr error) error {

	operational := lifecycleErr == nil
	switch p.format {
	case OutputFormatJSON:
		result := map[string]interface{}{
			"device":      serial,
			"partition":   partition.String(),
			"lock_state":  state.String(),
			"operational": operational,
		}
		if lifecycleErr != nil {
			result["lifecycle_error"] = lifecycleErr.Error()
		}
		return p.printJSON(result)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Device:      %s\n", serial)
		fmt.Fprintf(p.writer, "Partition:   %s\n", partition)
		fmt.Fprintf(p.writer, "Lock state:  %s\n", state)
		fmt.Fprintf(p.writer, "Operational: %t\n", operational)
		if lifecycleErr != nil {
			fmt.Fprintf(p.writer, "Lifecycle:   %s\n", lifecycleErr)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"error": err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %s\n", err)
		return nil
	}
}

// printJSON marshals and prints data as indented JSON
func (p *Printer) printJSON(data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(p.writer, string(encoded))
	return nil
}
