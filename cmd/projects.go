package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/innovation-earth/iepsite/internal/notify"
	"github.com/innovation-earth/iepsite/internal/progress"
	"github.com/innovation-earth/iepsite/internal/projects"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects from the terminal",
}

var (
	listJSON bool

	addDescription string
	addURL         string
	addStatus      string
	addPriority    string
	addProgress    int
	addTags        []string
	addImage       string
)

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored project, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.repo.List(withStderrNotices(ctx))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		fmt.Fprintf(out, "%d projects in %s\n\n", len(items), st.storeName())
		if len(items) == 0 {
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tPROGRESS\tTAGS\tCREATED")
		for _, p := range items {
			title := truncate(p.Title, 40)
			tags := strings.Join(p.Tags, ",")
			if tags == "" {
				tags = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
				p.ID, title, p.Status.Badge().Label, p.Priority.Badge().Label,
				p.Progress, tags, p.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var projectsAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a project",
	Long: `Adds a project. Missing title and description are prompted for.
When the remote store cannot be reached the project is kept in the local
fallback store; run "iepsite projects sync" later to push it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f := projects.Fields{
			Description: addDescription,
			URL:         addURL,
			Status:      addStatus,
			Priority:    addPriority,
			Tags:        addTags,
		}
		if len(args) == 1 {
			f.Title = args[0]
		}
		if cmd.Flags().Changed("progress") {
			p := addProgress
			f.Progress = &p
		}
		if err := promptMissing(&f); err != nil {
			return err
		}
		if addImage != "" {
			dataURL, err := readImageFile(addImage)
			if err != nil {
				return err
			}
			f.ImageURL = dataURL
		}

		st, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.repo.Create(withStderrNotices(ctx), f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Project added successfully! (%s, %s, %d%%)\n", p.ID, p.Status.Badge().Label, p.Progress)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.repo.Delete(withStderrNotices(ctx), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Project deleted successfully! (%s)\n", args[0])
		return nil
	},
}

var projectsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push projects held in the local fallback store to the remote store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStack(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		reporter := progress.NewReporter(os.Stderr, "Syncing projects")
		started := false
		moved, err := st.repo.SyncLocal(ctx, func(done, total int, title string) {
			if !started {
				reporter.Start(total)
				started = true
			}
			reporter.Update(done, title)
		})
		if started {
			reporter.Finish()
		}
		if errors.Is(err, projects.ErrNoRemote) {
			return fmt.Errorf("%w: set remote.driver in %s", err, cfgFile)
		}
		if err != nil {
			return fmt.Errorf("synced %d projects before failing: %w", moved, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d projects to %s\n", moved, st.storeName())
		return nil
	},
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// withStderrNotices prints repository notices (such as the local fallback
// warning) to stderr.
func withStderrNotices(ctx context.Context) context.Context {
	return notify.WithNotifier(ctx, notify.Func(func(message string, kind notify.Kind) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", strings.ToUpper(string(kind)), message)
	}))
}

// promptMissing asks for a title and description when they were not given.
func promptMissing(f *projects.Fields) error {
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("required")
		}
		return nil
	}
	if strings.TrimSpace(f.Title) == "" {
		prompt := promptui.Prompt{Label: "Project title", Validate: required}
		title, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("project title: %w", err)
		}
		f.Title = title
	}
	if strings.TrimSpace(f.Description) == "" {
		prompt := promptui.Prompt{Label: "Description (markdown)", Validate: required}
		desc, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		f.Description = desc
	}
	return nil
}

// readImageFile loads a local image into a data URL, applying the same
// checks as the admin panel upload.
func readImageFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := file.Read(head)
		contentType = http.DetectContentType(head[:n])
		if _, err := file.Seek(0, 0); err != nil {
			return "", fmt.Errorf("reading image: %w", err)
		}
	}
	return projects.ReadImage(file, info.Size(), contentType)
}

func init() {
	projectsListCmd.Flags().BoolVar(&listJSON, "json", false, "print projects as JSON")

	projectsAddCmd.Flags().StringVarP(&addDescription, "description", "d", "", "project description (markdown)")
	projectsAddCmd.Flags().StringVar(&addURL, "url", "", "project link")
	projectsAddCmd.Flags().StringVar(&addStatus, "status", "", "idea, planning, development, testing or completed")
	projectsAddCmd.Flags().StringVar(&addPriority, "priority", "", "low, medium, high or critical")
	projectsAddCmd.Flags().IntVar(&addProgress, "progress", 0, "progress percentage (default derived from status)")
	projectsAddCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag (repeatable)")
	projectsAddCmd.Flags().StringVar(&addImage, "image", "", "path to an image file (max 5MB)")

	projectsCmd.AddCommand(projectsListCmd, projectsAddCmd, projectsDeleteCmd, projectsSyncCmd)
	rootCmd.AddCommand(projectsCmd)
}
