//go:build windows

package console

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

var (
	kernel32       = syscall.NewLazyDLL("kernel32.dll")
	attachConsole  = kernel32.NewProc("AttachConsole")
	getStdHandle   = kernel32.NewProc("GetStdHandle")
	getConsoleWnd  = kernel32.NewProc("GetConsoleWindow")
	setConsoleText = kernel32.NewProc("SetConsoleTitleW")
)

const (
	ATTACH_PARENT_PROCESS = ^uint32(0) // -1 as uint32
	STD_INPUT_HANDLE      = ^uint32(0) - 10 + 1
	STD_OUTPUT_HANDLE     = ^uint32(0) - 11 + 1
	STD_ERROR_HANDLE      = ^uint32(0) - 12 + 1
)

// Attach attaches to the parent console when the process has none.
// Returns true if a console is available for output.
func Attach() bool {
	stdOutputHandle, _, _ := getStdHandle.Call(uintptr(STD_OUTPUT_HANDLE))
	if stdOutputHandle != 0 && stdOutputHandle != uintptr(syscall.InvalidHandle) {
		attached = true
		return true
	}

	if ok, _, _ := attachConsole.Call(uintptr(ATTACH_PARENT_PROCESS)); ok == 0 {
		return false
	}

	stdOutputHandle, _, _ = getStdHandle.Call(uintptr(STD_OUTPUT_HANDLE))
	stdErrorHandle, _, _ := getStdHandle.Call(uintptr(STD_ERROR_HANDLE))
	stdInputHandle, _, _ := getStdHandle.Call(uintptr(STD_INPUT_HANDLE))

	if stdOutputHandle != 0 && stdOutputHandle != uintptr(syscall.InvalidHandle) {
		os.Stdout = os.NewFile(stdOutputHandle, "/dev/stdout")
	}
	if stdErrorHandle != 0 && stdErrorHandle != uintptr(syscall.InvalidHandle) {
		os.Stderr = os.NewFile(stdErrorHandle, "/dev/stderr")
	}
	if stdInputHandle != 0 && stdInputHandle != uintptr(syscall.InvalidHandle) {
		os.Stdin = os.NewFile(stdInputHandle, "/dev/stdin")
	}

	attached = true
	return true
}

// SetTitle sets the console window title
func SetTitle(title string) error {
	if !attached {
		return nil
	}

	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return err
	}

	r1, _, err := setConsoleText.Call(uintptr(unsafe.Pointer(titlePtr)))
	if r1 == 0 {
		return fmt.Errorf("SetConsoleTitle failed: %v", err)
	}
	return nil
}

// GetWindow returns the console window handle (HWND) so dialogs can be parented to it
func GetWindow() uintptr {
	if err := getConsoleWnd.Find(); err != nil {
		return 0
	}
	hwnd, _, _ := getConsoleWnd.Call()
	return hwnd
}
