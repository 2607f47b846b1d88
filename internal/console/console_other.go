//go:build !windows

package console

// Attach reports whether stdout is usable; there is nothing to attach to outside Windows
func Attach() bool {
	attached = true
	return true
}

// SetTitle is a no-op outside Windows
func SetTitle(string) error {
	return nil
}

// GetWindow returns 0 outside Windows
func GetWindow() uintptr {
	return 0
}
