package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/tagboard/internal/board"
	"github.com/tgienger/tagboard/internal/db"
	"github.com/tgienger/tagboard/internal/models"
)

// taskRow is the printed shape of one task
type taskRow struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	AdditionalData string       `json:"additional_data"`
	Tags           []models.Tag `json:"tags"`
	Active         bool         `json:"active"`
}

func newTasksCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print every task with its resolved tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := board.NewSync(app.client(), app.log).Load(cmd.Context(), 0)
			if err != nil {
				return err
			}

			store, err := db.New(app.cfg.DataDir)
			if err != nil {
				return fmt.Errorf("open local store: %w", err)
			}
			defer store.Close()

			ids := make([]int64, len(snap.Tasks))
			for i, t := range snap.Tasks {
				ids[i] = t.ID
			}
			active, err := store.ActiveTasks(ids)
			if err != nil {
				return err
			}

			rows := make([]taskRow, len(snap.Tasks))
			for i, t := range snap.Tasks {
				rows[i] = taskRow{
					ID:             t.ID,
					Name:           t.Name,
					AdditionalData: t.AdditionalData,
					Tags:           t.Tags,
					Active:         active[t.ID],
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			return writeTasks(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newTagsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the tag catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := app.client().ListTags(cmd.Context())
			if err != nil {
				return err
			}
			catalog := models.NewCatalog(tags).Tags()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), catalog)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, t := range catalog {
				fmt.Fprintf(w, "%d\t%s\n", t.ID, t.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func writeTasks(out io.Writer, rows []taskRow) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAGS\tACTIVE\tDATA")
	for _, r := range rows {
		names := make([]string, len(r.Tags))
		for i, t := range r.Tags {
			names[i] = t.Name
		}
		state := "-"
		if r.Active {
			state = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, strings.Join(names, ","), state, r.AdditionalData)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
