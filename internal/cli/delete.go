package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project (admin)",
	Long: `Delete a project by its ID or a unique ID prefix.

Examples:
  folio projects delete 65f0c1a2
  folio projects rm 65f0c --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	id, err := a.resolveID(ctx, args[0])
	if err != nil {
		return err
	}

	project, ok := a.projects.Get(id)
	if !ok {
		return fmt.Errorf("project not found: %s", args[0])
	}

	// Check config
	if a.cfg.ConfirmDelete && !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "About to delete: %q (ID: %s)\n", project.Title, project.ID)
		if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure? [y/N]: ") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := a.projects.Remove(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %s", describe(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted: %q\n", project.Title)
	return nil
}

// confirm asks a yes/no question, defaulting to no
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
