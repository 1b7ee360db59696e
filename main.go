// coworker - scripted agent transcripts with interactive cards.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/cli"
	"github.com/jeranaias/coworker-tui/internal/config"
	"github.com/jeranaias/coworker-tui/internal/export"
	"github.com/jeranaias/coworker-tui/internal/logging"
	"github.com/jeranaias/coworker-tui/internal/scenario"
	"github.com/jeranaias/coworker-tui/internal/ui/styles"
	"github.com/jeranaias/coworker-tui/internal/ui/transcript"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()
	cli.ApplyColorFlag(args.NoColor)

	if err := config.LoadEnvFile(""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	var err error
	switch cmd {
	case cli.CmdPlay:
		err = runTUI(args)
	case cli.CmdGallery:
		err = withConfig(args, func(cfg *config.Config) error {
			return cli.HandleGallery(os.Stdout, args, cfg.UI.MaxWidth)
		})
	case cli.CmdList:
		err = withConfig(args, func(cfg *config.Config) error {
			return cli.HandleList(os.Stdout, args, cfg.Scenario.Dir)
		})
	case cli.CmdConfig:
		err = cli.HandleConfig(os.Stdout, args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		err = runTUI(args)
	}

	cli.HandleErrorAndExit(cmd.String(), err, args.JSON)
}

// withConfig loads the configuration selected by args and calls fn.
func withConfig(args cli.Args, fn func(cfg *config.Config) error) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	return fn(cfg)
}

// =============================================================================
// TUI STARTUP
// =============================================================================

// runTUI plays a scenario full screen. Without a terminal it prints the
// card gallery instead.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	if args.Width > 0 {
		cfg.UI.MaxWidth = args.Width
	}

	closer, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logging.Discard()
	} else {
		defer closer.Close()
	}

	if !cli.IsStdoutTTY() {
		log.Info("stdout is not a terminal, printing gallery")
		return cli.HandleGallery(os.Stdout, args, cfg.UI.MaxWidth)
	}

	ref := args.Scenario
	if ref == "" {
		ref = cfg.Scenario.Default
		if cli.CanPrompt() && os.Getenv("COWORKER_SCENARIO") == "" {
			picked, err := cli.PickScenario(cfg.Scenario.Dir, ref)
			if err != nil {
				return err
			}
			ref = picked
		}
	}

	sc, err := scenario.Find(ref, cfg.Scenario.Dir)
	if err != nil {
		return scenarioNotFound(ref, cfg.Scenario.Dir, err)
	}

	mode := styles.ParseThemeMode(cfg.UI.Theme)
	theme := styles.NewThemeForMode(mode)
	if theme.IsDark {
		cards.Markdown.SetStyle("dark")
	} else {
		cards.Markdown.SetStyle("light")
	}

	opts := scenario.Options{
		Pacing:   cfg.Cards.Pacing(),
		MaxWidth: cfg.UI.MaxWidth,
		Compact:  cfg.UI.Compact,
	}

	var watcher *scenario.Watcher
	if (args.Watch || cfg.Scenario.Watch) && sc.Path != "" {
		watcher, err = scenario.NewWatcher(sc.Path, scenario.DefaultDebounce)
		if err != nil {
			log.Warn("file watching disabled", "path", sc.Path, "err", err)
		} else {
			defer watcher.Close()
		}
	} else if args.Watch {
		log.Warn("--watch needs a scenario file", "scenario", sc.Name)
	}

	m := NewModel(theme, sc, opts, watcher)

	log.Info("starting", "scenario", sc.Name, "version", Version, "theme", string(mode))

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running coworker: %w", err)
	}
	return nil
}

// scenarioNotFound adds a suggestion to an unknown scenario name.
func scenarioNotFound(ref, dir string, err error) error {
	if !errors.Is(err, scenario.ErrUnknownScenario) {
		return err
	}

	nf := &cli.NotFoundError{Resource: "scenario", ID: ref, Hint: "Run 'coworker list' to see available scenarios."}
	if all, listErr := scenario.List(dir); listErr == nil {
		names := make([]string, 0, len(all))
		for _, sc := range all {
			names = append(names, sc.Name)
		}
		if s := cli.SuggestFrom(ref, names); s != "" {
			nf.Hint = fmt.Sprintf("Did you mean %q?", s)
			return nf
		}
	}
	if s := cli.SuggestCommand(ref); s != "" {
		nf.Hint = fmt.Sprintf("Did you mean 'coworker %s'?", s)
	}
	return nf
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model ties the transcript to the scenario player and, when a file is
// being watched, to its watcher.
type Model struct {
	transcript transcript.Model
	player     *scenario.Player
	watcher    *scenario.Watcher
	exportOpts *export.Options
}

// NewModel creates the application model. watcher may be nil.
func NewModel(theme *styles.Theme, sc *scenario.Scenario, opts scenario.Options, watcher *scenario.Watcher) *Model {
	t := transcript.New(theme, sc.DisplayTitle())
	t.SetMaxCardWidth(opts.MaxWidth)

	return &Model{
		transcript: t,
		player:     scenario.NewPlayer(sc, opts),
		watcher:    watcher,
		exportOpts: export.DefaultOptions(),
	}
}

// Init starts the scenario and the watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.transcript.Init(),
		m.player.Start(),
		m.watchNext(),
	)
}

// Update hands player messages to the player first so card state is current
// when the transcript re-renders.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case scenario.ReloadMsg:
		return m, m.handleReload(msg)

	case transcript.ExportMsg:
		return m, m.exportTranscript()

	case scenario.FinishedMsg:
		cmds = append(cmds, transcript.Say(transcript.RoleSystem,
			fmt.Sprintf("End of %q. Press ctrl+c to quit.", msg.Name)))
	}

	if cmd := m.player.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	updated, cmd := m.transcript.Update(msg)
	m.transcript = updated.(transcript.Model)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the transcript.
func (m *Model) View() string {
	return m.transcript.View()
}

// handleReload replays an edited scenario from the top. A file that no
// longer parses leaves the current run alone.
func (m *Model) handleReload(msg scenario.ReloadMsg) tea.Cmd {
	if msg.Err != nil {
		log.Warn("scenario reload failed", "err", msg.Err)
		return tea.Batch(
			transcript.Say(transcript.RoleSystem, "Reload failed: "+msg.Err.Error()),
			m.watchNext(),
		)
	}

	sc := msg.Scenario
	log.Info("scenario reloaded", "scenario", sc.Name, "beats", len(sc.Beats))
	m.transcript.SetTitle(sc.DisplayTitle())

	return tea.Batch(
		tea.Sequence(
			func() tea.Msg { return transcript.ClearMsg{} },
			m.player.Restart(sc),
		),
		m.watchNext(),
	)
}

// exportTranscript snapshots the transcript now and writes it in the
// background, reporting the path as a system note.
func (m *Model) exportTranscript() tea.Cmd {
	rec := export.FromTranscript(m.transcript.Title(), m.player.Scenario().Name, m.transcript.Entries())
	opts := m.exportOpts

	return func() tea.Msg {
		path, err := export.ExportToFile(rec, export.NewMarkdownExporter(opts), opts)
		if err != nil {
			log.Warn("transcript export failed", "err", err)
			return transcript.AppendMsg{Entry: transcript.Entry{Role: transcript.RoleSystem, Text: "Could not save transcript: " + err.Error()}}
		}
		log.Info("transcript exported", "path", path)
		return transcript.AppendMsg{Entry: transcript.Entry{Role: transcript.RoleSystem, Text: "Saved transcript to " + path}}
	}
}

func (m *Model) watchNext() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Next()
}
