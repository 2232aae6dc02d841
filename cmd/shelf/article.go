package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/render"
)

func newArticleCmd(flags *globalFlags) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "article <id>",
		Short: "Print the archived article of a bookmark",
		Long: `Print the archived content of a bookmark as plain text. Links are
numbered and listed at the end. Use --raw for the HTML the server returns.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, _, closer, err := flags.connect()
			if err != nil {
				return err
			}
			defer closer.Close()

			content, err := client.FetchArticle(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !raw {
				doc, err := render.Parse(content)
				if err != nil {
					return fmt.Errorf("render article %d: %w", id, err)
				}
				content = doc.String()
				if doc.Title != "" && !strings.HasPrefix(content, "# "+doc.Title) {
					content = doc.Title + "\n\n" + content
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, content)
			if !strings.HasSuffix(content, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the HTML unchanged")
	return cmd
}
