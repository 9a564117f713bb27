package platform

// UnsupportedPlatformError is returned by NewService when no native window
// service exists for the running OS or session.
type UnsupportedPlatformError struct {
	OS     string
	Reason string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Reason != "" {
		return "unsupported platform: " + e.OS + ": " + e.Reason
	}
	return "unsupported platform: " + e.OS
}
