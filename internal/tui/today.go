package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ritualist/internal/engine"
	"ritualist/internal/ui"
)

// TodayModel is the interactive view of today's cards. It refreshes from the
// engine on every action so the board never drifts from the store.
type TodayModel struct {
	svc    *engine.Service
	userID string

	today  *engine.TodayResult
	cursor int
	notice string
	err    error
	width  int
}

func NewTodayModel(ctx context.Context, svc *engine.Service, userID string) (*TodayModel, error) {
	res, err := svc.TodaysAssignment(ctx, userID, svc.Now())
	if err != nil {
		return nil, err
	}
	return &TodayModel{svc: svc, userID: userID, today: res}, nil
}

func (m *TodayModel) Init() tea.Cmd { return nil }

type refreshedMsg struct {
	today  *engine.TodayResult
	notice string
	err    error
}

func (m *TodayModel) rerollCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.svc.Reroll(ctx, m.userID, m.svc.Now())
		if err != nil {
			var ru engine.RerollUnavailableError
			if errors.As(err, &ru) {
				return refreshedMsg{today: m.today, notice: ru.Error()}
			}
			return refreshedMsg{today: m.today, err: err}
		}
		return refreshedMsg{today: res, notice: "rerolled"}
	}
}

func (m *TodayModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := m.svc.TodaysAssignment(ctx, m.userID, m.svc.Now())
		if err != nil {
			return refreshedMsg{today: m.today, err: err}
		}
		return refreshedMsg{today: res}
	}
}

func (m *TodayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshedMsg:
		m.today = msg.today
		m.notice = msg.notice
		m.err = msg.err
		if m.cursor >= len(m.today.Cards) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.today.Cards)-1 {
				m.cursor++
			}
		case "r":
			return m, m.rerollCmd()
		case "g":
			return m, m.refreshCmd()
		}
	}
	return m, nil
}

func (m *TodayModel) View() string {
	var b strings.Builder

	b.WriteString(ui.Heading(ui.IconCard, "Today's rituals") + "\n\n")

	for i, c := range m.today.Cards {
		slot := "guided"
		if i == 1 {
			slot = "explore"
		}
		name := ui.PanelTitle.Render(c.Title)
		if i == m.cursor {
			name = ui.SelectedRow.Render(" " + c.Title + " ")
		}
		title := fmt.Sprintf("%s %s", name, ui.CategoryBadge(string(c.Category)))
		meta := ui.Muted.Render(fmt.Sprintf("%s · id %s · ~%d min · %d bytes", slot, c.ID, c.EstimatedMinutes, c.BaseReward))
		body := lipgloss.JoinVertical(lipgloss.Left, title, meta, c.Prompt)
		panel := ui.Panel.Render(body)
		if i == m.cursor {
			panel = ui.Panel.BorderForeground(lipgloss.Color("220")).Render(body)
		}
		b.WriteString(panel + "\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.LabelValue("Completed", fmt.Sprintf("%d/%d", m.today.State.RitualsCompleted, engine.DailyCap)))
	b.WriteString("  ")
	b.WriteString(ui.LabelValue("Streak", ui.BadgeStreak.Render(fmt.Sprintf("%d %s", m.today.State.StreakDays, ui.IconFlame))))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(ui.Warn.Render(m.notice) + "\n")
	}
	if m.err != nil {
		b.WriteString(ui.Bad.Render(ui.IconError+" "+m.err.Error()) + "\n")
	}

	help := "j/k move · g refresh · q quit"
	if m.today.CanReroll {
		help = "r reroll · " + help
	}
	b.WriteString(ui.Muted.Render(help) + "\n")
	b.WriteString(ui.Muted.Render("complete a card with: rl done <id> -f journal.txt -d <seconds>") + "\n")

	return b.String()
}
