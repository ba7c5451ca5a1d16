package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesync/internal/adapters/transfer"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

func (a *App) listCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes, optionally filtered by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes := a.components.Quotes.List(cmd.Context(), category)

			if a.asJSON {
				return transfer.Export(cmd.OutOrStdout(), quotes)
			}

			if len(quotes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No quotes.")
				return nil
			}

			for _, q := range quotes {
				printQuote(cmd.OutOrStdout(), q)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter (default all)")

	return cmd
}

func (a *App) randomCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := a.components.Quotes.Random(cmd.Context(), category)
			if err != nil {
				return err
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), transfer.FromDomain(q))
			}

			printQuote(cmd.OutOrStdout(), q)

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category to pick from (default all)")

	return cmd
}

func (a *App) addCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Add a quote; it is uploaded on the next sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := a.components.Quotes.Add(cmd.Context(), app.AddQuoteInput{Text: args[0], Category: category})
			if err != nil {
				return err
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), transfer.FromDomain(q))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added quote %s to %s.\n", q.ID, q.Category)

			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "quote category")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func (a *App) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories := a.components.Quotes.Categories(cmd.Context())

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}

			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}

			return nil
		},
	}
}

func (a *App) exportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes := a.components.Quotes.Export(cmd.Context())

			if out == "" || out == "-" {
				return transfer.Export(cmd.OutOrStdout(), quotes)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}

			if err := transfer.Export(f, quotes); err != nil {
				_ = f.Close()
				return err
			}

			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d quotes to %s.\n", len(quotes), out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout; try "+transfer.ExportFileName+")")

	return cmd
}

func (a *App) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import quotes from a JSON array; - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			drafts, err := transfer.ParseImport(data)
			if err != nil {
				return err
			}

			res, err := a.components.Quotes.Import(cmd.Context(), drafts)
			if err != nil {
				return err
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]int{"imported": res.Imported, "skipped": res.Skipped})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d quotes, skipped %d duplicates.\n", res.Imported, res.Skipped)

			return nil
		},
	}
}

func (a *App) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Upload pending quotes and merge remote ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := a.components.Sync.Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"uploaded":  result.Uploaded,
					"added":     result.Added,
					"replaced":  result.Replaced,
					"conflicts": result.Conflicts,
					"message":   result.Summary(),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())

			return nil
		},
	}
}

func (a *App) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes := a.components.Quotes.Reset(cmd.Context())

			fmt.Fprintf(cmd.OutOrStdout(), "Collection reset to %d default quotes.\n", len(quotes))

			return nil
		},
	}
}

// collectionStatus summarizes the stored collection. Sync state lives in the
// service process, so the CLI reports what is waiting to be synced instead.
type collectionStatus struct {
	Total      int      `json:"total"`
	Pending    int      `json:"pending"`
	Categories []string `json:"categories"`
	Selected   string   `json:"selectedCategory"`
	LastQuote  string   `json:"lastQuote,omitempty"`
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the collection and pending uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var status collectionStatus

			a.components.Library.View(func(c *domain.Collection) {
				status.Total = c.Len()
				status.Pending = len(c.Pending())
				status.Categories = c.Categories()
			})

			prefs := a.components.Quotes.Preferences(cmd.Context())
			status.Selected = prefs.Category

			if prefs.LastQuote != nil {
				status.LastQuote = prefs.LastQuote.Text
			}

			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Quotes:     %d\n", status.Total)
			fmt.Fprintf(w, "Pending:    %d\n", status.Pending)
			fmt.Fprintf(w, "Categories: %s\n", strings.Join(status.Categories, ", "))
			fmt.Fprintf(w, "Selected:   %s\n", status.Selected)

			if status.LastQuote != "" {
				fmt.Fprintf(w, "Last shown: %q\n", status.LastQuote)
			}

			return nil
		},
	}
}

func printQuote(w io.Writer, q domain.Quote) {
	marker := ""
	if q.Pending {
		marker = " *"
	}

	fmt.Fprintf(w, "%q (%s)%s\n", q.Text, q.Category, marker)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}
