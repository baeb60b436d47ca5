// Package tui is the terminal command bar: one input that routes to
// navigation, command execution, search, or the assistant, with the live
// conversation transcript below it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/portiq/assist-go/internal/assistant"
	"github.com/portiq/assist-go/internal/command"
	"github.com/portiq/assist-go/internal/conversation"
	"github.com/portiq/assist-go/internal/intelligence"
	"github.com/portiq/assist-go/internal/intent"
)

// transcriptLines is how many trailing transcript entries are drawn.
const transcriptLines = 12

// navState is shared with the command registry's Run closures so navigation
// survives bubbletea's value-copied model updates.
type navState struct {
	route string
}

// assistantDoneMsg signals that an async send or action finished.
type assistantDoneMsg struct{}

// Model is the bubbletea model for the command bar.
type Model struct {
	orc      *assistant.Orchestrator
	registry *command.Registry
	nav      *navState
	intel    *intelligence.Watcher

	input    textinput.Model
	filtered []command.Command
	cursor   int
	width    int
	height   int
	inflight int
	quitting bool
}

// NewModel builds the command bar around an orchestrator. intel may be nil;
// the intelligence line is then omitted.
func NewModel(orc *assistant.Orchestrator, intel *intelligence.Watcher) Model {
	nav := &navState{route: "/dashboard"}
	registry := command.DefaultRegistry(func(target string) { nav.route = target })

	ti := textinput.New()
	ti.Placeholder = "type a command, search, or question..."
	ti.CharLimit = 500
	ti.Focus()

	m := Model{
		orc:      orc,
		registry: registry,
		nav:      nav,
		intel:    intel,
		input:    ti,
		width:    120,
		height:   30,
	}
	m.filtered = registry.Filter("")
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case assistantDoneMsg:
		m.inflight--
		m.updateIntel()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+l":
			m.orc.Clear()
			m.updateIntel()
			return m, nil

		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			// Execute the first suggested action of the latest assistant
			// message, if any.
			if a, ok := m.latestSuggestedAction(); ok {
				m.inflight++
				return m, m.executeCmd(a)
			}
			return m, nil

		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.filtered = m.registry.Filter(m.input.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
	return m, cmd
}

// submit routes the typed input by classified intent.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	switch intent.Classify(text) {
	case intent.Navigation:
		// "/invoices", "go to invoices" and "open invoices" all filter on
		// the bare destination.
		q := strings.ToLower(text)
		q = strings.TrimPrefix(q, "/")
		q = strings.TrimPrefix(q, "go to ")
		q = strings.TrimPrefix(q, "open ")
		if matches := m.registry.Filter(q); len(matches) > 0 {
			matches[0].Run()
		} else if len(m.filtered) > 0 {
			m.filtered[m.cursor].Run()
		}
		m.resetInput()
		return m, nil

	case intent.Action:
		// Prefer a matching registered action; otherwise let the
		// assistant handle the request.
		for _, c := range m.filtered {
			if c.Kind == command.KindAction {
				c.Run()
				m.resetInput()
				return m, nil
			}
		}
		fallthrough

	case intent.Conversation:
		m.inflight++
		cmd := m.sendCmd(text)
		m.resetInput()
		return m, cmd

	default: // intent.Search
		m.nav.route = "/search?q=" + text
		m.resetInput()
		return m, nil
	}
}

func (m *Model) resetInput() {
	m.input.SetValue("")
	m.filtered = m.registry.Filter("")
	m.cursor = 0
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		m.orc.SendMessage(context.Background(), text)
		return assistantDoneMsg{}
	}
}

func (m Model) executeCmd(a conversation.Action) tea.Cmd {
	return func() tea.Msg {
		m.orc.ExecuteAction(context.Background(), a)
		return assistantDoneMsg{}
	}
}

// updateIntel feeds the current conversation context into the intelligence
// watcher. The watcher debounces and caches; inactive params disable it.
func (m Model) updateIntel() {
	if m.intel == nil {
		return
	}
	m.intel.Update(paramsFromContext(m.orc.Store().Context()))
}

// paramsFromContext pulls the intelligence parameter tuple out of the active
// context payload. Missing or mistyped fields are simply left empty.
func paramsFromContext(c conversation.Context) intelligence.Params {
	var p intelligence.Params
	if c.Data == nil {
		return p
	}
	if s, ok := c.Data["delivery_port"].(string); ok {
		p.DeliveryPort = s
	}
	if s, ok := c.Data["vessel_id"].(string); ok {
		p.VesselID = s
	}
	if s, ok := c.Data["delivery_date"].(string); ok {
		p.DeliveryDate = s
	}
	if s, ok := c.Data["bidding_deadline"].(string); ok {
		p.BiddingDeadline = s
	}
	if codes, ok := c.Data["impa_codes"].([]any); ok {
		for _, v := range codes {
			if s, ok := v.(string); ok {
				p.IMPACodes = append(p.IMPACodes, s)
			}
		}
	}
	return p
}

func (m Model) latestSuggestedAction() (conversation.Action, bool) {
	msgs := m.orc.Store().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == conversation.RoleAssistant && len(msgs[i].Actions) > 0 {
			return msgs[i].Actions[0], true
		}
	}
	return conversation.Action{}, false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("PortiQ"))
	b.WriteString(routeStyle.Render(m.nav.route))
	b.WriteString("\n\n")

	b.WriteString(m.renderTranscript())

	if m.orc.Store().Processing() || m.inflight > 0 {
		b.WriteString(dimStyle.Render("  assistant is thinking..."))
		b.WriteString("\n")
	}
	if m.intel != nil {
		b.WriteString(m.renderIntelligence())
	}
	b.WriteString("\n")

	b.WriteString(m.renderCommands())
	b.WriteString("\n")

	b.WriteString(inputStyle.Render("> " + m.input.Value() + "█"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: go · tab: run suggestion · ctrl+l: clear chat · esc: quit"))

	return b.String()
}

func (m Model) renderTranscript() string {
	msgs := m.orc.Store().Messages()
	if len(msgs) > transcriptLines {
		msgs = msgs[len(msgs)-transcriptLines:]
	}

	var b strings.Builder
	for _, msg := range msgs {
		switch msg.Role {
		case conversation.RoleUser:
			b.WriteString(userStyle.Render("you ") + msg.Content)
		case conversation.RoleAssistant:
			b.WriteString(assistantStyle.Render("portiq ") + msg.Content)
			for _, a := range msg.Actions {
				b.WriteString("\n    " + actionStyle.Render(fmt.Sprintf("[%s]", a.Label)))
			}
		case conversation.RoleSystem:
			b.WriteString(systemStyle.Render(msg.Content))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderIntelligence() string {
	snap := m.intel.Snapshot()
	switch {
	case snap.Loading:
		return dimStyle.Render("  intelligence: loading...") + "\n"
	case snap.Err != nil:
		return dimStyle.Render("  intelligence unavailable: "+snap.Err.Error()) + "\n"
	case snap.Data != nil:
		var parts []string
		if n := len(snap.Data.PriceBenchmarks); n > 0 {
			parts = append(parts, fmt.Sprintf("%d price benchmarks", n))
		}
		if s := snap.Data.Suppliers; s != nil {
			parts = append(parts, fmt.Sprintf("%d suppliers", s.TotalCount))
		}
		if t := snap.Data.Timing; t != nil && t.Assessment != "" {
			parts = append(parts, "timing "+t.Assessment)
		}
		if len(parts) == 0 {
			return ""
		}
		return dimStyle.Render("  intelligence: "+strings.Join(parts, ", ")) + "\n"
	}
	return ""
}

func (m Model) renderCommands() string {
	var b strings.Builder
	shown := m.filtered
	if len(shown) > 6 {
		shown = shown[:6]
	}
	for i, c := range shown {
		line := fmt.Sprintf("%-22s %s", c.Label, dimStyle.Render(c.Target))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
