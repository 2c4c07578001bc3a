package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┬┌┬┐┌─┐┌─┐┬  ┌─┐
  ╠╣ │ │ │  ├─┤│  │
  ╚  ┴ ┴ └─┘┴ ┴┴─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "fitcalc",
		Short: "Attribute calculator and fit validator for composable item configurations",
		Long: `fitcalc computes the effective numeric attributes of a fit: a
composable configuration of items (ship, modules, charges, skills,
implants, drones) that mutually modify each other's attributes through a
declarative modifier network, and validates it against a set of
restriction rules.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		computeCmd(),
		validateCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
