// internal/status/encode.go
package status

// Encode converts a Snapshot into a full status block.
// The device name takes the tail of the block: printable ASCII,
// two characters per register, high byte first, zero padded.
// No IO. No side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotLastMode] = s.LastMode
	regs[SlotCalls] = s.Calls

	// reserved slots stay zero

	if len(deviceName) > DeviceNameMaxChars {
		deviceName = deviceName[:DeviceNameMaxChars]
	}
	for i := 0; i < len(deviceName); i++ {
		c := deviceName[i]
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		shift := uint(8)
		if i%2 == 1 {
			shift = 0
		}
		regs[SlotDeviceNameStart+i/2] |= uint16(c) << shift
	}

	return regs
}
