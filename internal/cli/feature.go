package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var featureCmd = &cobra.Command{
	Use:   "feature [project-id]",
	Short: "Feature a project on the home page (admin)",
	Long: `Mark a project as featured.

Examples:
  folio projects feature 65f0c
  folio projects feature 65f0c --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runFeature,
}

var featureUndo bool

func init() {
	featureCmd.Flags().BoolVar(&featureUndo, "undo", false, "Remove from featured projects")
}

func runFeature(cmd *cobra.Command, args []string) error {
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

	current, err := a.client.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("project not found: %s (%s)", args[0], describe(err))
	}

	featured := !featureUndo
	if current.Featured == featured {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: %q is already %s\n", current.Title, featuredLabel(featured))
		return nil
	}

	in := current.Input()
	in.Featured = featured
	p, err := a.projects.Update(ctx, current.ID, in)
	if err != nil {
		return fmt.Errorf("failed to update project: %s", describe(err))
	}

	if featured {
		fmt.Fprintf(cmd.OutOrStdout(), "★ Featured: %q\n", p.Title)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "☆ Unfeatured: %q\n", p.Title)
	}
	return nil
}

func featuredLabel(featured bool) string {
	if featured {
		return "featured"
	}
	return "not featured"
}
