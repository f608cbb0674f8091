// internal/status/constants.go
package status

// Logger status block layout constants.
// These values define the block written to status memory and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of register slots per logger.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotState holds the reachability state code.
const SlotState = 0

// SlotLastErrorCode holds the last error code (see v5.ErrorCode).
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the logger has not been online.
const SlotSecondsInError = 2

// SlotConsecutiveFailures holds the failed-cycle counter.
const SlotConsecutiveFailures = 3

// ---- RESERVED RANGE ----

// Slots 4-10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// DefaultOfflineThreshold is the number of consecutive failed cycles after
// which a logger is reported offline.
const DefaultOfflineThreshold = 3
