// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/ui/transcript"
)

// =============================================================================
// MESSAGES
// =============================================================================

// OutcomeMsg reports how the user resolved a card. Label identifies the
// outcome (an action label, "approve", the chosen option IDs, ...) and
// Detail carries a readable summary.
type OutcomeMsg struct {
	Label  string
	Detail string

	gen  uint64
	beat int
}

// FinishedMsg is sent after the last beat has played.
type FinishedMsg struct {
	Name string
}

type advanceMsg struct{ gen uint64 }

type beatMsg struct {
	gen  uint64
	beat int
}

type stepMsg struct {
	gen  uint64
	beat int
}

type retryMsg struct {
	gen  uint64
	beat int
	step int
}

// =============================================================================
// PLAYER
// =============================================================================

// progressRun drives the steps of a progress card. fail is the zero-based
// step that fails once, or -1.
type progressRun struct {
	beat       int
	card       *cards.ProgressCard
	steps      []cards.ProgressStep
	current    int
	stepDur    time.Duration
	fail       int
	failed     bool
	detail     string
	autoFinish bool
	stopped    bool
}

// Player feeds a scenario into the transcript one beat at a time. Beats
// carrying an interactive card hold the scenario until the card reports
// an outcome.
//
// Every message the player schedules is stamped with a generation; Start
// bumps it so messages from a previous run are ignored.
type Player struct {
	sc   *Scenario
	opts Options

	gen      uint64
	next     int
	waiting  int
	progress *progressRun
	finished bool
}

// NewPlayer creates a player for sc. Call Start to begin.
func NewPlayer(sc *Scenario, opts Options) *Player {
	if opts.Pacing == (cards.Pacing{}) {
		opts.Pacing = cards.DefaultPacing()
	}
	return &Player{sc: sc, opts: opts, waiting: -1}
}

// Scenario returns the scenario being played.
func (p *Player) Scenario() *Scenario { return p.sc }

// Finished reports whether every beat has played.
func (p *Player) Finished() bool { return p.finished }

// Waiting reports whether the player is blocked on a card.
func (p *Player) Waiting() bool { return p.waiting >= 0 }

// Start plays the scenario from the first beat.
func (p *Player) Start() tea.Cmd {
	p.gen++
	p.next = 0
	p.waiting = -1
	p.progress = nil
	p.finished = false
	log.Info("scenario started", "name", p.sc.Name, "beats", len(p.sc.Beats))
	return p.advance()
}

// Restart swaps in sc and plays it from the start.
func (p *Player) Restart(sc *Scenario) tea.Cmd {
	p.sc = sc
	return p.Start()
}

// Update handles the player's own messages. Everything else is ignored.
func (p *Player) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case advanceMsg:
		if msg.gen != p.gen {
			return nil
		}
		return p.advance()

	case beatMsg:
		if msg.gen != p.gen {
			return nil
		}
		return tea.Sequence(transcript.StopThinking(), p.play(msg.beat))

	case OutcomeMsg:
		if msg.gen != p.gen {
			return nil
		}
		return p.handleOutcome(msg)

	case stepMsg:
		if msg.gen != p.gen {
			return nil
		}
		return p.handleStep(msg.beat)

	case retryMsg:
		if msg.gen != p.gen {
			return nil
		}
		return p.handleRetry(msg.beat, msg.step)
	}
	return nil
}

func (p *Player) advanceCmd() tea.Cmd {
	gen := p.gen
	return func() tea.Msg { return advanceMsg{gen: gen} }
}

// advance plays the next beat, after its thinking delay if it has one.
func (p *Player) advance() tea.Cmd {
	if p.next >= len(p.sc.Beats) {
		if p.finished {
			return nil
		}
		p.finished = true
		log.Info("scenario finished", "name", p.sc.Name)
		name := p.sc.Name
		return func() tea.Msg { return FinishedMsg{Name: name} }
	}

	i := p.next
	p.next++
	b := p.sc.Beats[i]
	if b.DelayMs > 0 {
		gen := p.gen
		return tea.Batch(
			transcript.Think(b.Thinking),
			tea.Tick(time.Duration(b.DelayMs)*time.Millisecond, func(time.Time) tea.Msg {
				return beatMsg{gen: gen, beat: i}
			}),
		)
	}
	return p.play(i)
}

// play appends beat i to the transcript.
func (p *Player) play(i int) tea.Cmd {
	if i < 0 || i >= len(p.sc.Beats) {
		return nil
	}
	b := p.sc.Beats[i]

	switch {
	case b.User != "":
		return tea.Sequence(transcript.Say(transcript.RoleUser, b.User), p.advanceCmd())
	case b.Note != "":
		return tea.Sequence(transcript.Say(transcript.RoleSystem, b.Note), p.advanceCmd())
	case b.Card == nil:
		return tea.Sequence(transcript.Say(transcript.RoleAgent, b.Agent), p.advanceCmd())
	}

	card, err := b.Card.Build(p.env(i))
	if err != nil {
		log.Error("failed to build card", "scenario", p.sc.Name, "beat", i+1, "err", err)
		note := fmt.Sprintf("Could not show this card: %v", err)
		return tea.Sequence(transcript.Say(transcript.RoleSystem, note), p.advanceCmd())
	}

	present := transcript.Present(b.Agent, card)
	var cmds []tea.Cmd
	blocking := b.Card.Blocking()

	if pc, ok := card.(*cards.ProgressCard); ok {
		// Progress beats without actions advance when the last step finishes.
		blocking = true
		p.progress = &progressRun{
			beat:       i,
			card:       pc,
			steps:      pc.Steps(),
			stepDur:    b.Card.stepDuration(),
			fail:       b.Card.FailAt - 1,
			detail:     b.Card.FailDetail,
			autoFinish: len(b.Card.Actions) == 0,
		}
		cmds = append(cmds, p.tickStep(i))
	}

	if !blocking {
		return tea.Sequence(present, p.advanceCmd())
	}
	p.waiting = i
	return tea.Batch(append([]tea.Cmd{present}, cmds...)...)
}

func (p *Player) env(beat int) buildEnv {
	gen := p.gen
	return buildEnv{
		opts: p.opts,
		outcome: func(label, detail string) tea.Cmd {
			return func() tea.Msg {
				return OutcomeMsg{Label: label, Detail: detail, gen: gen, beat: beat}
			}
		},
		retry: func(step int) tea.Cmd {
			return func() tea.Msg { return retryMsg{gen: gen, beat: beat, step: step} }
		},
	}
}

// =============================================================================
// OUTCOMES
// =============================================================================

func (p *Player) handleOutcome(msg OutcomeMsg) tea.Cmd {
	if msg.beat < 0 || msg.beat >= len(p.sc.Beats) {
		return nil
	}
	b := p.sc.Beats[msg.beat]
	log.Info("card outcome", "scenario", p.sc.Name, "beat", msg.beat+1, "outcome", msg.Label, "detail", msg.Detail)

	if run := p.progress; run != nil && run.beat == msg.beat {
		run.stopped = true
	}

	var cmds []tea.Cmd
	if reply := b.reply(msg.Label, msg.Detail); reply != "" {
		cmds = append(cmds, transcript.Say(transcript.RoleAgent, reply))
	}
	if p.waiting == msg.beat {
		p.waiting = -1
		cmds = append(cmds, p.advanceCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Sequence(cmds...)
}

// reply finds the agent text that follows an outcome. Labels match
// case-insensitively; "*" matches anything.
func (b Beat) reply(label, detail string) string {
	text, ok := b.Replies[label]
	if !ok {
		for k, v := range b.Replies {
			if strings.EqualFold(k, label) {
				text, ok = v, true
				break
			}
		}
	}
	if !ok {
		text = b.Replies["*"]
	}
	return strings.ReplaceAll(text, "{value}", detail)
}

// =============================================================================
// PROGRESS STEPS
// =============================================================================

func (p *Player) tickStep(beat int) tea.Cmd {
	run := p.progress
	gen := p.gen
	return tea.Tick(run.stepDur, func(time.Time) tea.Msg {
		return stepMsg{gen: gen, beat: beat}
	})
}

// handleStep finishes the running step and starts the next one. The
// configured failing step errors once and waits for a retry.
func (p *Player) handleStep(beat int) tea.Cmd {
	run := p.progress
	if run == nil || run.beat != beat || run.stopped || run.card.Resolved() {
		return nil
	}
	if run.current >= len(run.steps) {
		return nil
	}

	if run.current == run.fail && !run.failed {
		run.failed = true
		run.steps[run.current].Status = cards.StepError
		run.steps[run.current].Detail = run.detail
		log.Warn("progress step failed", "scenario", p.sc.Name, "step", run.steps[run.current].Label)
		return run.card.SetSteps(run.steps)
	}

	run.steps[run.current].Status = cards.StepDone
	run.steps[run.current].Detail = ""
	run.current++
	if run.current < len(run.steps) {
		run.steps[run.current].Status = cards.StepRunning
		return tea.Batch(run.card.SetSteps(run.steps), p.tickStep(beat))
	}

	cmd := run.card.SetSteps(run.steps)
	if !run.autoFinish {
		return cmd
	}
	done := p.env(beat).emit("done", p.sc.Beats[beat].Card.Title)
	return tea.Batch(cmd, done)
}

func (p *Player) handleRetry(beat, step int) tea.Cmd {
	run := p.progress
	if run == nil || run.beat != beat || run.stopped || step != run.current {
		return nil
	}
	if run.steps[step].Status != cards.StepError {
		return nil
	}
	log.Info("progress step retried", "scenario", p.sc.Name, "step", run.steps[step].Label)
	run.steps[step].Status = cards.StepRunning
	run.steps[step].Detail = ""
	return tea.Batch(run.card.SetSteps(run.steps), p.tickStep(beat))
}
