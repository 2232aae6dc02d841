package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/shiori"
	"github.com/five82/shelf/internal/ui"
)

const listTitleWidth = 60

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		asJSON bool
		order  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Long: `List bookmarks as a table, or as a JSON array with --json.

The order follows the sort saved by the UI unless --sort is given.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if order != "" && order != prefs.SortNewest && order != prefs.SortOldest && order != prefs.SortTitle {
				return usagef("invalid --sort %q (want newest, oldest or title)", order)
			}
			client, _, closer, err := flags.connect()
			if err != nil {
				return err
			}
			defer closer.Close()

			if order == "" {
				saved, err := prefs.Load(flags.prefsPath)
				if err != nil {
					return fmt.Errorf("load prefs: %w", err)
				}
				order = saved.Sort
			}

			items, err := client.ListBookmarks(cmd.Context())
			if err != nil {
				return err
			}
			items = ui.SortBookmarks(items, order)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			writeTable(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	cmd.Flags().StringVar(&order, "sort", "", "sort order: newest, oldest or title")
	return cmd
}

func writeJSON(w io.Writer, items []shiori.BookmarkSummary) error {
	if items == nil {
		items = []shiori.BookmarkSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeTable(w io.Writer, items []shiori.BookmarkSummary) {
	if len(items) == 0 {
		fmt.Fprintln(w, faintStyle.Render("No bookmarks"))
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "TITLE", "HOST", "CREATED")

	for _, item := range items {
		t.Row(
			strconv.Itoa(item.ID),
			clip(ui.DisplayTitle(item), listTitleWidth),
			host(item.URL),
			createdDate(item),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}

func createdDate(item shiori.BookmarkSummary) string {
	if t := item.ParsedCreatedAt(); !t.IsZero() {
		return t.Format("2006-01-02")
	}
	return item.CreatedAt
}
