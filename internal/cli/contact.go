package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/folio/internal/model"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the portfolio owner",
	Long: `Send a message through the portfolio's contact form.

Example:
  folio contact --first Ada --last Lovelace --email ada@example.com \
    --subject "Hello" --message "I enjoyed your projects."`,
	Args: cobra.NoArgs,
	RunE: runContact,
}

var contactMsg model.ContactMessage

func init() {
	contactCmd.Flags().StringVar(&contactMsg.FirstName, "first", "", "First name")
	contactCmd.Flags().StringVar(&contactMsg.LastName, "last", "", "Last name")
	contactCmd.Flags().StringVar(&contactMsg.Email, "email", "", "Your email address")
	contactCmd.Flags().StringVar(&contactMsg.Subject, "subject", "", "Subject")
	contactCmd.Flags().StringVarP(&contactMsg.Message, "message", "m", "", "Message (at least 10 characters)")
}

func runContact(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.SendContact(cmd.Context(), contactMsg); err != nil {
		return fmt.Errorf("failed to send message: %s", describe(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "📬 Message sent. Thank you!")
	return nil
}
