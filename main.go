package main

import (
	"fmt"
	"os"

	"github.com/MrModification/pvzf-launcher/internal/console"
)

func main() {
	// Global panic handler to keep stack traces and paths out of user output
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nOops, something broke: %v\n", r)
			fmt.Fprintln(os.Stderr, "Check launcher.log in the resource folder for details.")
			os.Exit(1)
		}
	}()

	if console.Attach() {
		_ = console.SetTitle(console.Title)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
