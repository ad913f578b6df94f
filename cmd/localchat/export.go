package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sebastianszewc/localchat/internal/export"
)

func exportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export [chat-index]",
		Short: "Export a chat transcript as markdown or HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			col := &a.store.Collection
			index := col.CurrentIndex
			if len(args) == 1 {
				index, err = strconv.Atoi(args[0])
				if err != nil || index < 0 || index >= len(col.Chats) {
					return fmt.Errorf("no chat at index %q", args[0])
				}
			}
			ch := &col.Chats[index]

			ext := "md"
			if format == "html" {
				ext = "html"
			} else if format != "md" {
				return fmt.Errorf("unknown format %q (md or html)", format)
			}
			if out == "" {
				out = slug(ch.Title) + "." + ext
			}

			if ext == "html" {
				err = export.WriteHTML(ch, out)
			} else {
				err = export.WriteMarkdown(ch, out)
			}
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "md", "output format: md or html")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: derived from the title)")
	return cmd
}

func slug(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "chat"
	}
	return b.String()
}
