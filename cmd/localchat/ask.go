package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/orch"
)

func askCmd() *cobra.Command {
	var web bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask a single question in the active chat and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			events := make(chan orch.Event, 64)
			o := orch.New(a.store, a.model, a.search, a.plans, a.plans, a.loader,
				func(e orch.Event) { events <- e })
			o.Start()
			defer o.Stop()

			if !o.SubmitTurn(strings.Join(args, " "), web) {
				return errors.New("empty message")
			}

			var turnErr error
			for e := range events {
				switch e := e.(type) {
				case orch.SearchQueryUsed:
					fmt.Fprintf(os.Stderr, "[web search query] %s\n", e.Query)
				case orch.SearchResults:
					fmt.Fprintf(os.Stderr, "[web search] %d sources\n", e.Count)
				case orch.MessageAppended:
					if e.Message.Role == chat.RoleAssistant && e.Message.Kind == chat.KindPlain {
						fmt.Println(e.Message.Content)
					}
				case orch.TurnError:
					turnErr = fmt.Errorf("%s: %s", e.Stage, e.Message)
				case orch.TurnFinished:
					return turnErr
				}
			}
			return turnErr
		},
	}

	cmd.Flags().BoolVar(&web, "web", false, "augment the question with web search")
	return cmd
}
