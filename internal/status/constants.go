// internal/status/constants.go
package status

// Status block layout constants.
// These values define the monitoring memory layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per status block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the health of the last call.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last result code, int16 two's complement.
const SlotLastErrorCode = 1

// SlotLastMode holds the mode of the last call.
const SlotLastMode = 2

// SlotCalls counts delivered records. Wraps at 65535.
const SlotCalls = 3

// ---- RESERVED RANGE ----

// Slots 4..10 are reserved and stay zero.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// DeviceNameMaxChars is the maximum number of ASCII characters stored for the name.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)
