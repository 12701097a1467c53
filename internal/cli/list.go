package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/existflow/folio/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long: `List portfolio projects, newest first.

Examples:
  folio projects list
  folio projects list --featured
  folio projects list --tech react
  folio projects list --search portfolio --json`,
	RunE: runList,
}

var (
	listFeatured bool
	listTech     string
	listSearch   string
	listJSON     bool
)

func init() {
	listCmd.Flags().BoolVarP(&listFeatured, "featured", "f", false, "Only featured projects")
	listCmd.Flags().StringVarP(&listTech, "tech", "t", "", "Only projects using this technology")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Search titles and descriptions (3+ characters)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.projects.Load(cmd.Context())
	st := a.projects.State()
	if st.Err != nil {
		// the showcase still renders, just empty
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Could not load projects: %s\n", describe(st.Err))
	}

	projects := st.Projects
	switch {
	case listFeatured:
		projects = a.projects.Featured()
	case listTech != "":
		projects = a.projects.ByTechnology(listTech)
	case listSearch != "":
		projects = a.projects.Search(listSearch)
	}
	if listFeatured && listTech != "" {
		projects = filterByTech(projects, listTech)
	}

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(projects)
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	printProjects(out, projects)
	return nil
}

func filterByTech(projects []model.Project, tech string) []model.Project {
	out := []model.Project{}
	for _, p := range projects {
		if p.HasTechnology(tech) {
			out = append(out, p)
		}
	}
	return out
}

func printProjects(out io.Writer, projects []model.Project) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s  %-32s  %-12s  %-4s  %s\n", "ID", "Title", "Status", "Year", "Technologies")
	fmt.Fprintln(out, strings.Repeat("─", 90))

	featured := 0
	for _, p := range projects {
		if p.Featured {
			featured++
		}
		printProject(out, p)
	}

	fmt.Fprintln(out, strings.Repeat("─", 90))
	fmt.Fprintf(out, "  %d projects, %d featured\n\n", len(projects), featured)
}

func printProject(out io.Writer, p model.Project) {
	star := " "
	if p.Featured {
		star = "★"
	}

	// Short ID
	shortID := p.ID
	if len(shortID) > 10 {
		shortID = shortID[:10]
	}

	// Truncate title if too long
	title := p.Title
	if len(title) > 30 {
		title = title[:27] + "..."
	}

	techs := strings.Join(p.Technologies, ", ")
	if len(techs) > 28 {
		techs = techs[:25] + "..."
	}

	fmt.Fprintf(out, "%s %-10s  %-32s  %-12s  %-4s  %s\n", star, shortID, title, p.Status.Label(), p.Year, techs)
}
