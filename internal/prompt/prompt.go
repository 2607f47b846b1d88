package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// ErrCancelled is returned when the user backs out of a selection
var ErrCancelled = errors.New("selection cancelled")

// Config holds configuration for prompting
type Config struct {
	NonInteractive   bool
	AssumeYes        bool
	// In is read line by line. Pass one *bufio.Reader to a sequence of prompts;
	// any other reader is wrapped anew on every call.
	In               io.Reader
	Out              io.Writer
	GetConsoleWindow func() uintptr
}

func (c Config) reader() *bufio.Reader {
	if c.In == nil {
		return bufio.NewReader(os.Stdin)
	}
	if br, ok := c.In.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(c.In)
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Confirm asks the user to confirm an action
func Confirm(prompt string, cfg Config) bool {
	if cfg.NonInteractive || cfg.AssumeYes {
		return true
	}

	fmt.Fprintf(cfg.out(), "%s (y/n): ", prompt)
	response, err := cfg.reader().ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Choose displays a numbered list and returns the index of the chosen option.
// Non-interactive mode picks the first option.
func Choose(title string, options []string, cfg Config) (int, error) {
	if len(options) == 0 {
		return -1, ErrCancelled
	}
	if cfg.NonInteractive {
		return 0, nil
	}

	w := cfg.out()
	fmt.Fprintf(w, "\n%s\n\n", title)
	for i, opt := range options {
		fmt.Fprintf(w, "  %d. %s\n", i+1, opt)
	}
	fmt.Fprintf(w, "\nEnter choice (1-%d) or 0 to cancel: ", len(options))

	reader := cfg.reader()
	for {
		response, err := reader.ReadString('\n')
		response = strings.TrimSpace(response)
		if err != nil && response == "" {
			return -1, ErrCancelled
		}

		if response == "0" {
			return -1, ErrCancelled
		}
		if choice, convErr := strconv.Atoi(response); convErr == nil && choice >= 1 && choice <= len(options) {
			return choice - 1, nil
		}
		if err != nil {
			return -1, ErrCancelled
		}
		fmt.Fprintf(w, "Invalid choice. Please enter 0-%d: ", len(options))
	}
}

// SelectFolder opens a folder selection dialog
func SelectFolder(defaultPath string, cfg Config) (string, error) {
	if cfg.NonInteractive {
		return defaultPath, nil
	}

	consoleHandle := uintptr(0)
	if cfg.GetConsoleWindow != nil {
		consoleHandle = cfg.GetConsoleWindow()
	}

	if err := ole.CoInitialize(0); err != nil {
		return "", fmt.Errorf("failed to initialize COM: %w", err)
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return "", fmt.Errorf("failed to create Shell object: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", fmt.Errorf("failed to get IDispatch interface: %w", err)
	}
	defer shell.Release()

	folderObj, err := oleutil.CallMethod(shell, "BrowseForFolder", int(consoleHandle),
		"Select game installation folder", 0x10)
	if err != nil {
		return "", fmt.Errorf("failed to show folder dialog: %w", err)
	}

	if folderObj.Value() == nil {
		return "", ErrCancelled
	}

	folderItem := folderObj.ToIDispatch()
	if folderItem == nil {
		return "", ErrCancelled
	}
	defer folderItem.Release()

	selfProp, err := oleutil.GetProperty(folderItem, "Self")
	if err != nil {
		return "", fmt.Errorf("failed to get folder item: %w", err)
	}

	selfDispatch := selfProp.ToIDispatch()
	defer selfDispatch.Release()

	pathProp, err := oleutil.GetProperty(selfDispatch, "Path")
	if err != nil {
		return "", fmt.Errorf("failed to get folder path: %w", err)
	}

	selectedPath := pathProp.ToString()
	if selectedPath == "" {
		return "", fmt.Errorf("no folder selected")
	}

	return selectedPath, nil
}
