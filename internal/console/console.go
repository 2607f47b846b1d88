// Package console manages the Windows console window the launcher runs in.
// On other platforms every call is a no-op.
package console

// Title is shown in the console window's title bar
const Title = "PVZF Launcher"

var attached bool

// IsAttached returns whether a console is attached
func IsAttached() bool {
	return attached
}
