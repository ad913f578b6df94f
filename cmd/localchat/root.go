// Package cli wires the localchat commands: the interactive TUI (default),
// one-shot ask, model listing, and transcript export.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sebastianszewc/localchat/internal/chat"
	"github.com/sebastianszewc/localchat/internal/config"
	"github.com/sebastianszewc/localchat/internal/llm"
	"github.com/sebastianszewc/localchat/internal/logging"
	"github.com/sebastianszewc/localchat/internal/orch"
	"github.com/sebastianszewc/localchat/internal/planner"
	"github.com/sebastianszewc/localchat/internal/tui"
	"github.com/sebastianszewc/localchat/internal/websearch"
)

var (
	flagDataDir   string
	flagBaseURL   string
	flagSearchURL string
)

// SetupRootCmd builds the command tree. Running without a subcommand opens
// the chat TUI.
func SetupRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "localchat",
		Short:        "Local chat assistant with web search, backed by Ollama",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "",
		"data directory (default: platform config dir, or LOCALCHAT_DATA_DIR)")
	root.PersistentFlags().StringVar(&flagBaseURL, "ollama-url",
		envOr("LOCALCHAT_OLLAMA_URL", llm.DefaultBaseURL), "Ollama API base URL")
	root.PersistentFlags().StringVar(&flagSearchURL, "search-url",
		envOr("LOCALCHAT_SEARCH_URL", websearch.DefaultSearchURL), "SearXNG search endpoint")

	root.AddCommand(askCmd(), modelsCmd(), exportCmd())
	return root
}

// app is the shared wiring every command starts from.
type app struct {
	dir    string
	loader *config.Loader
	store  *chat.Store
	model  *llm.Client
	search *websearch.Client
	plans  *planner.Planner
}

func buildApp() (*app, error) {
	dir := flagDataDir
	if dir == "" {
		var err error
		dir, err = config.EnsureDataDir()
		if err != nil {
			return nil, err
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	logging.Quiet(dir)

	a := &app{
		dir:    dir,
		loader: config.NewLoader(dir),
		store:  chat.NewStore(filepath.Join(dir, "chats.json")),
		model:  llm.NewClient(flagBaseURL),
		search: websearch.NewClient(flagSearchURL),
	}
	a.plans = planner.New(a.model, a.loader)

	if !a.store.Load() {
		settings := a.loader.Settings()
		model := settings.DefaultModel
		if model == "" {
			model = config.FallbackModel
		}
		a.store.CreateChat(chat.DefaultTitle(1), model, a.loader.Prompt(config.PromptSystem))
	}
	return a, nil
}

func runTUI(ctx context.Context) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	fwd := &tui.Forwarder{}
	o := orch.New(a.store, a.model, a.search, a.plans, a.plans, a.loader, fwd.Send)
	o.Start()
	defer o.Stop()

	models := llm.ListModels(ctx, flagBaseURL)

	p := tea.NewProgram(
		tui.NewModel(o, models, a.loader.Settings()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	fwd.Attach(p)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := a.loader.Watch(watchCtx, fwd.SendSettings); err != nil {
			logging.Warnf("settings watcher: %v", err)
		}
	}()

	_, err = p.Run()
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
