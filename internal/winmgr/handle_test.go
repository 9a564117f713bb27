package winmgr

import (
	"bytes"
	"testing"

	"github.com/1broseidon/winwatch/internal/platform"
)

func TestDecodeHandle(t *testing.T) {
	tests := []struct {
		blob []byte
		want platform.WindowID
	}{
		{[]byte{0x7B, 0x00, 0x00, 0x00}, 123},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0x01, 0x02, 0x03, 0x04}, 0x04030201},
		{[]byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF},
		// Trailing bytes are ignored.
		{[]byte{0x0A, 0x00, 0x00, 0x00, 0xEE, 0xEE}, 10},
	}
	for _, tt := range tests {
		if got := DecodeHandle(tt.blob); got != tt.want {
			t.Errorf("DecodeHandle(% x) = %d, want %d", tt.blob, got, tt.want)
		}
	}
}

func TestDecodeHandle_ShortBlobPanics(t *testing.T) {
	for _, blob := range [][]byte{nil, {}, {1}, {1, 2, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("DecodeHandle(% x) did not panic", blob)
				}
			}()
			DecodeHandle(blob)
		}()
	}
}

func TestEncodeHandle(t *testing.T) {
	if got := EncodeHandle(123); !bytes.Equal(got, []byte{0x7B, 0, 0, 0}) {
		t.Fatalf("EncodeHandle(123) = % x", got)
	}
	for _, id := range []platform.WindowID{0, 1, 0x3a00007, 0xFFFFFFFF} {
		if got := DecodeHandle(EncodeHandle(id)); got != id {
			t.Errorf("round trip %d = %d", id, got)
		}
	}
}
