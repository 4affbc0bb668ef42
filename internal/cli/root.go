// Package cli holds the cobra commands of the signup binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signup",
	Short: "Newsletter signup intake service.",
	Long: `signup receives newsletter signup form posts, verifies the challenge token,
sends a welcome email, adds the address to the mailing list and redirects the
browser back to the site.

Configuration is read from SIGNUP_* environment variables (and .env).`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
