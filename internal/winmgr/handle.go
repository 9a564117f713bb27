package winmgr

import (
	"encoding/binary"
	"fmt"

	"github.com/1broseidon/winwatch/internal/platform"
)

// HandleSize is the length of an encoded native window handle.
const HandleSize = 4

// DecodeHandle reads a little-endian uint32 window handle from the first
// four bytes of b. A shorter blob is a caller bug and panics.
func DecodeHandle(b []byte) platform.WindowID {
	if len(b) < HandleSize {
		panic(fmt.Sprintf("winmgr: invalid handle encoding: %d bytes, need %d", len(b), HandleSize))
	}
	return platform.WindowID(binary.LittleEndian.Uint32(b))
}

// EncodeHandle is the inverse of DecodeHandle.
func EncodeHandle(id platform.WindowID) []byte {
	return binary.LittleEndian.AppendUint32(make([]byte, 0, HandleSize), uint32(id))
}
