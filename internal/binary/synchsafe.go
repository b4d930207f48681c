package binary

import "fmt"

// MaxSynchSafe is the largest value a 4-byte synch-safe integer can hold (2^28-1).
const MaxSynchSafe = 1<<28 - 1

// SynchSafeError reports a synch-safe integer byte with its top bit set.
type SynchSafeError struct {
	Index int
	Value byte
}

func (e *SynchSafeError) Error() string {
	return fmt.Sprintf("synch-safe byte %d is 0x%02x: most significant bit must be clear", e.Index, e.Value)
}

// ReadSynchSafe decodes the 4-byte synch-safe integer at the start of b.
//
// Each byte contributes its low 7 bits, most significant byte first. A byte
// with bit 7 set is rejected rather than masked, so a corrupt size is never
// silently truncated.
func ReadSynchSafe(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("synch-safe integer: need 4 bytes, have %d", len(b))
	}

	var v uint32
	for i, c := range b[:4] {
		if c&0x80 != 0 {
			return 0, &SynchSafeError{Index: i, Value: c}
		}
		v = v<<7 | uint32(c)
	}
	return v, nil
}

// PutSynchSafe encodes v into the first 4 bytes of dst.
//
// It panics if v exceeds MaxSynchSafe; callers validate sizes first.
func PutSynchSafe(dst []byte, v uint32) {
	if v > MaxSynchSafe {
		panic(fmt.Sprintf("binary: synch-safe value %d exceeds %d", v, MaxSynchSafe))
	}
	_ = dst[3]
	dst[0] = byte(v>>21) & 0x7F
	dst[1] = byte(v>>14) & 0x7F
	dst[2] = byte(v>>7) & 0x7F
	dst[3] = byte(v) & 0x7F
}

// WriteSynchSafe returns the 4-byte synch-safe encoding of v.
//
// It panics if v exceeds MaxSynchSafe.
func WriteSynchSafe(v uint32) [4]byte {
	var b [4]byte
	PutSynchSafe(b[:], v)
	return b
}

// AppendSynchSafe appends the synch-safe encoding of v to dst.
func AppendSynchSafe(dst []byte, v uint32) []byte {
	b := WriteSynchSafe(v)
	return append(dst, b[:]...)
}
