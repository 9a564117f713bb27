package platform

import "github.com/1broseidon/winwatch/internal/x11"

func windowRecordFromInfo(info x11.WindowInfo) WindowRecord {
	owner := x11.ProcessName(info.PID)
	if owner == "" {
		owner = info.Class
	}
	return WindowRecord{
		ID: WindowID(info.ID),
		Bounds: Rect{
			X:      info.X,
			Y:      info.Y,
			Width:  info.Width,
			Height: info.Height,
		},
		Title:   info.Title,
		Owner:   owner,
		PID:     info.PID,
		Visible: info.Mapped,
	}
}

func monitorRecordFromX11(m x11.Monitor) MonitorRecord {
	return MonitorRecord{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		WorkArea: Rect{
			X:      m.WorkX,
			Y:      m.WorkY,
			Width:  m.WorkWidth,
			Height: m.WorkHeight,
		},
		Primary: m.Primary,
	}
}
