// internal/status/modbus.go
package status

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// RegisterWriter writes holding registers of one unit.
type RegisterWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// ModbusWriter puts status blocks into monitoring memory with
// Write Multiple Registers over Modbus TCP.
// The handler dials on first use and again after an idle close.
type ModbusWriter struct {
	mu      sync.Mutex // guards SlaveId
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func NewModbusWriter(cfg ClientConfig) (*ModbusWriter, error) {
	if _, _, err := net.SplitHostPort(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("status modbus: endpoint %q: %w", cfg.Endpoint, err)
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}

	return &ModbusWriter{handler: h, client: modbus.NewClient(h)}, nil
}

func (w *ModbusWriter) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	payload := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(payload[2*i:], r)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.handler.SlaveId = unitID
	if _, err := w.client.WriteMultipleRegisters(addr, uint16(len(regs)), payload); err != nil {
		return fmt.Errorf("status modbus: unit %d addr %d x%d: %w", unitID, addr, len(regs), err)
	}
	return nil
}

func (w *ModbusWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handler.Close()
}
