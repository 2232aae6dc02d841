package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/shiori"
)

func newLoginCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and show when the session expires",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cfg, closer, err := flags.connect()
			if err != nil {
				return err
			}
			defer closer.Close()

			expiresAt, err := client.Login(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Logged in")+" as "+cfg.Username+" on "+client.BaseURL())
			if expiresAt.IsZero() {
				fmt.Fprintln(out, "Session expiry not reported by the server")
				return nil
			}
			fmt.Fprintf(out, "Session expires %s (in %s)\n",
				expiresAt.Local().Format(time.RFC1123),
				time.Until(expiresAt).Round(time.Minute))
			return nil
		},
	}
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Save a URL as a new bookmark",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := strings.TrimSpace(args[0])
			if rawURL == "" {
				return usagef("url is empty")
			}
			client, _, closer, err := flags.connect()
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := client.AddBookmark(cmd.Context(), rawURL); err != nil {
				return err
			}
			logrus.WithField("url", rawURL).Info("bookmark added")
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Added")+" "+rawURL)
			return nil
		},
	}
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete bookmarks by ID",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			client, _, closer, err := flags.connect()
			if err != nil {
				return err
			}
			defer closer.Close()

			formatted := shiori.FormatIDs(ids)
			if err := client.DeleteBookmarks(cmd.Context(), formatted); err != nil {
				return err
			}
			logrus.WithField("ids", formatted).Info("bookmarks deleted")
			noun := "bookmarks"
			if len(ids) == 1 {
				noun = "bookmark"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s %s\n", successStyle.Render("Deleted"), len(ids), noun, formatted)
			return nil
		},
	}
}

// parseIDs parses positive bookmark IDs, dropping duplicates while keeping
// the order given.
func parseIDs(args []string) ([]int, error) {
	seen := make(map[int]bool, len(args))
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, usagef("invalid bookmark id %q", arg)
	}
	return id, nil
}
