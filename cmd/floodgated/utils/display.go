// Package utils contains utility functions for the floodgate daemon.
package utils

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var logoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

// DisplayLogo prints the floodgate banner with version information to stderr
func DisplayLogo(version string) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, logoStyle.Render(` ░█▀▀░█░░░█▀█░█▀█░█▀▄░█▀▀░█▀█░▀█▀░█▀▀
 ░█▀▀░█░░░█░█░█░█░█░█░█░█░█▀█░░█░░█▀▀
 ░▀░░░▀▀▀░▀▀▀░▀▀▀░▀▀░░▀▀▀░▀░▀░░▀░░▀▀▀`))
	fmt.Fprintf(os.Stderr, "\n floodgate v%s - bounded batch submission for storage nodes\n\n", version)
}
