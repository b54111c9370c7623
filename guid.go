package lasgo

import "github.com/google/uuid"

// guidFromWire converts the on-disk LAS project GUID layout — a
// little-endian uint32, two little-endian uint16s, and 8 raw bytes (spec §6
// `[8..24)`) — into a uuid.UUID. LAS stores the first three GUID fields
// little-endian, matching the Microsoft GUID convention that uuid.UUID's
// byte layout assumes is big-endian throughout, so the first 8 bytes are
// byte-swapped on the way in and out.
func guidFromWire(b [16]byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:])
	return u
}

// guidToWire is the inverse of guidFromWire.
func guidToWire(u uuid.UUID) [16]byte {
	var b [16]byte
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}
