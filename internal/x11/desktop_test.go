package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestPickDesktop(t *testing.T) {
	const root xproto.Window = 1
	types := map[xproto.Window][]string{
		10: {"_NET_WM_WINDOW_TYPE_NORMAL"},
		11: {"_NET_WM_WINDOW_TYPE_DESKTOP"},
		12: {"_NET_WM_WINDOW_TYPE_DESKTOP"},
	}
	lookup := func(w xproto.Window) ([]string, error) {
		if w == 13 {
			return nil, errors.New("bad window")
		}
		return types[w], nil
	}

	tests := []struct {
		name    string
		clients []xproto.Window
		want    xproto.Window
	}{
		{"no clients", nil, root},
		{"no desktop client", []xproto.Window{10}, root},
		{"desktop client", []xproto.Window{10, 11}, 11},
		{"first desktop wins", []xproto.Window{12, 11}, 12},
		{"type error skipped", []xproto.Window{13, 11}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickDesktop(tt.clients, root, lookup); got != tt.want {
				t.Fatalf("pickDesktop() = %d, want %d", got, tt.want)
			}
		})
	}
}
