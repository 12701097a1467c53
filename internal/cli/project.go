package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/folio/internal/api"
	"github.com/existflow/folio/internal/model"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project", "p"},
	Short:   "Browse and manage portfolio projects",
	Long:    `List, inspect, create, edit and delete portfolio projects.`,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show project counts",
	RunE:  runProjectStats,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project-id]",
	Short: "Edit a project (admin)",
	Long: `Replace a project's fields. Fields without a flag keep their current value.

Examples:
  folio projects edit 65f0c --title "New title"
  folio projects edit 65f0c --status draft --image ./shot.png`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectEdit,
}

var editFlags projectFlags

func init() {
	editFlags.register(projectEditCmd)

	projectsCmd.AddCommand(listCmd)
	projectsCmd.AddCommand(projectShowCmd)
	projectsCmd.AddCommand(projectStatsCmd)
	projectsCmd.AddCommand(addCmd)
	projectsCmd.AddCommand(projectEditCmd)
	projectsCmd.AddCommand(deleteCmd)
	projectsCmd.AddCommand(featureCmd)
}

// projectFlags are the form fields shared by add and edit
type projectFlags struct {
	title       string
	description string
	tech        string
	category    string
	status      string
	year        string
	liveURL     string
	githubURL   string
	featured    bool
	image       string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Project title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Project description")
	cmd.Flags().StringVar(&f.tech, "tech", "", "Comma separated technologies (e.g. 'Go,React')")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category (e.g. 'Web Development', 'AI/ML')")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status: published, draft, archived")
	cmd.Flags().StringVarP(&f.year, "year", "y", "", "Project year")
	cmd.Flags().StringVar(&f.liveURL, "live", "", "Live demo URL")
	cmd.Flags().StringVar(&f.githubURL, "github", "", "Source repository URL")
	cmd.Flags().BoolVarP(&f.featured, "featured", "f", false, "Feature on the home page")
	cmd.Flags().StringVarP(&f.image, "image", "i", "", "Image URL, or a local file to upload")
}

// apply copies every flag the user set onto in
func (f *projectFlags) apply(cmd *cobra.Command, in *model.ProjectInput) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		in.Title = f.title
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("tech") {
		in.Technologies = model.SplitTechnologies(f.tech)
	}
	if changed("category") {
		c, err := model.ParseCategory(f.category)
		if err != nil {
			return err
		}
		in.Category = c
	}
	if changed("status") {
		st, err := model.ParseStatus(f.status)
		if err != nil {
			return err
		}
		in.Status = st
	}
	if changed("year") {
		in.Year = f.year
	}
	if changed("live") {
		in.LiveURL = f.liveURL
	}
	if changed("github") {
		in.GithubURL = f.githubURL
	}
	if changed("featured") {
		in.Featured = f.featured
	}
	if changed("image") {
		in.Image = f.image
	}
	return nil
}

// resolveImage uploads image when it names a local file and returns the
// reference to store. A failed upload falls back to the placeholder so the
// rest of the project still saves.
func resolveImage(ctx context.Context, a *app, out io.Writer, image string) (string, error) {
	if !api.IsLocalFile(image) {
		return image, nil
	}

	fmt.Fprintf(out, "🔄 Uploading %s...\n", image)
	url, err := a.client.UploadFile(ctx, image)
	if err != nil {
		if url == "" {
			return "", err
		}
		fmt.Fprintf(out, "⚠️  Upload failed (%s), using placeholder image\n", describe(err))
	}
	return url, nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.resolveID(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	p, err := a.client.GetProject(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("project not found: %s (%s)", args[0], describe(err))
	}

	printProjectDetail(cmd.OutOrStdout(), p)
	return nil
}

func runProjectStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.projects.Load(cmd.Context())
	if st := a.projects.State(); st.Err != nil {
		return fmt.Errorf("failed to load projects: %s", describe(st.Err))
	}

	s := a.projects.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-14s %d\n", "Projects", s.Total)
	fmt.Fprintf(out, "  %-14s %d\n", "Featured", s.Featured)
	fmt.Fprintf(out, "  %-14s %d\n", model.StatusPublished.Label(), s.Completed)
	fmt.Fprintf(out, "  %-14s %d\n", model.StatusDraft.Label(), s.InProgress)
	fmt.Fprintf(out, "  %-14s %d\n", model.StatusArchived.Label(), s.Archived)
	fmt.Fprintf(out, "  %-14s %d\n", "Technologies", s.Technologies)
	fmt.Fprintln(out)
	return nil
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
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

	in := current.Input()
	if err := editFlags.apply(cmd, &in); err != nil {
		return err
	}
	if cmd.Flags().Changed("image") {
		if in.Image, err = resolveImage(ctx, a, cmd.OutOrStdout(), in.Image); err != nil {
			return err
		}
	}

	p, err := a.projects.Update(ctx, current.ID, in)
	if err != nil {
		return fmt.Errorf("failed to update project: %s", describe(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated: %q (id: %s)\n", p.Title, p.ID)
	return nil
}

func printProjectDetail(out io.Writer, p model.Project) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "📁 %s\n", p.Title)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "  %-13s %s\n", "ID", p.ID)
	fmt.Fprintf(out, "  %-13s %s\n", "Category", p.Category)
	fmt.Fprintf(out, "  %-13s %s\n", "Status", p.Status.Label())
	fmt.Fprintf(out, "  %-13s %s\n", "Year", p.Year)
	fmt.Fprintf(out, "  %-13s %t\n", "Featured", p.Featured)
	fmt.Fprintf(out, "  %-13s %s\n", "Technologies", strings.Join(p.Technologies, ", "))
	if p.LiveURL != "" {
		fmt.Fprintf(out, "  %-13s %s\n", "Live", p.LiveURL)
	}
	if p.GithubURL != "" {
		fmt.Fprintf(out, "  %-13s %s\n", "GitHub", p.GithubURL)
	}
	fmt.Fprintf(out, "  %-13s %s\n", "Image", model.ImageURL(p.Image))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n\n", p.Description)
}
