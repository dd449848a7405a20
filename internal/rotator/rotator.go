// Package rotator drives an antenna rotator over a serial link using the
// ASCII protocol "AZ%06.1f EL%05.1f\r\n". Grounded on the serial wiring
// pattern in the pack's radar-monitoring example, adapted from an
// event-reading port to a write-only command port.
package rotator

import (
	"fmt"
	"log"
	"sync"

	"go.bug.st/serial"
)

// Driver wraps an open serial port. Open failures and write failures are
// logged and treated as non-fatal: steering is best-effort, the capture
// itself doesn't depend on the rotator reaching commanded position.
type Driver struct {
	log  *log.Logger
	mu   sync.Mutex
	port serial.Port
}

// Open opens portName at baud with 8N1 framing, matching the rotator
// controller's fixed serial configuration.
func Open(portName string, baud int, logger *log.Logger) (*Driver, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: 1,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("rotator: open %s: %w", portName, err)
	}

	return &Driver{log: logger, port: port}, nil
}

// Point sends an AZ/EL steering command. Errors are logged, not returned,
// per spec: a rotator fault must never abort a capture in progress.
func (d *Driver) Point(azDeg, elDeg float64) {
	if d == nil || d.port == nil {
		return
	}
	cmd := fmt.Sprintf("AZ%06.1f EL%05.1f\r\n", azDeg, elDeg)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.port.Write([]byte(cmd)); err != nil {
		d.log.Printf("rotator: write failed: %v", err)
	}
}

// Close releases the serial port.
func (d *Driver) Close() error {
	if d == nil || d.port == nil {
		return nil
	}
	return d.port.Close()
}
