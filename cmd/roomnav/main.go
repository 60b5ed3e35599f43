package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌┬┐┌┐┌┌─┐┬  ┬
  ├┬┘│ ││ │││││││├─┤└┐┌┘
  ┴└─└─┘└─┘┴ ┴┘└┘┴ ┴ └┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "roomnav",
		Short: "Crowd-aware room guide for one-day events",
		Long: `Roomnav serves a live room guide for a one-day event.

Visitors browse rooms, check how crowded each one is, and submit
crowd levels as they wander. Pages render on the server and stream
to the browser over a websocket; navigation never reloads the page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
