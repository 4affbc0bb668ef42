package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deppfellow/newsletter-signup/internal/lib/email"
)

var previewCmd = &cobra.Command{
	Use:   "preview-email",
	Short: "Renders the welcome email with sample data.",
	Long:  "Renders the embedded welcome email template with sample data and prints the HTML. No configuration or network access is needed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")

		html, err := email.Preview(email.TemplateWelcome, to)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	},
}

func init() {
	previewCmd.Flags().String("to", "", "Recipient address shown in the preview")
	rootCmd.AddCommand(previewCmd)
}
