package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/folio/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new project (admin)",
	Long: `Create a portfolio project. Requires an admin session.

Examples:
  folio projects add -t "Portfolio" -d "My personal site" --tech Go,React -y 2024 -i https://example.com/shot.png
  folio projects add -t "Chatbot" -d "An LLM powered helper" --tech Python -c "AI/ML" -s draft -y 2025 -i ./shot.png --featured`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var addFlags projectFlags

func init() {
	addFlags.register(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	var in model.ProjectInput
	if err := addFlags.apply(cmd, &in); err != nil {
		return err
	}

	// check the form before spending an upload on it
	if err := in.Normalize().Validate(false); err != nil {
		return fmt.Errorf("invalid project: %s", describe(err))
	}
	if in.Image, err = resolveImage(ctx, a, cmd.OutOrStdout(), in.Image); err != nil {
		return err
	}

	p, err := a.projects.Add(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create project: %s", describe(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added: %q (id: %s)\n", p.Title, p.ID)
	return nil
}
