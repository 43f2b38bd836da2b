package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dailyos/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case !m.loaded && m.status == "":
		content = mutedStyle.Render("Loading today...")
	case m.state == StateCheckpoint && m.form != nil:
		content = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Checkpoint"),
			m.form.View(),
		)
	case m.state == StateUnits:
		content = m.viewUnits()
	default:
		content = m.viewToday()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewStatus(),
		m.help.View(m),
	))
}

func (m Model) viewToday() string {
	sections := []string{
		titleStyle.Render("Today · " + m.day.Date),
		m.viewStreaks(),
		m.viewMomentum(),
		sectionStyle.Render(m.viewFocus()),
		sectionStyle.Render(m.viewText(editTarget{intent: true}, m.day.DailyIntent)),
	}
	for _, h := range models.HorizonTypes {
		sections = append(sections, sectionStyle.Render(m.viewText(editTarget{horizon: h}, m.day.Horizon(h))))
	}
	sections = append(sections, sectionStyle.Render(m.viewCheckpoint()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewStreaks() string {
	return fmt.Sprintf("Showed up %s this month · closed %s",
		plural(m.streaks.PresenceStreak, "day"),
		plural(m.streaks.CheckpointStreak, "day"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func (m Model) viewMomentum() string {
	var cells []string
	for _, d := range m.momentum.Days {
		label := d.DayOfWeek
		if len(label) > 2 {
			label = label[:2]
		}
		switch {
		case d.HasCheckpoint:
			cells = append(cells, activeDayStyle.Render(label+"✓"))
		case d.HasActivity:
			cells = append(cells, activeDayStyle.Render(label+"•"))
		default:
			cells = append(cells, mutedStyle.Render(label+"·"))
		}
	}
	line := strings.Join(cells, " ")
	if m.momentum.Text != "" {
		line += "  " + m.momentum.Text
	}
	return line
}

func (m Model) viewFocus() string {
	unit, ok := m.focusUnit()
	if !ok {
		if m.day.WorkUnit != nil {
			return sectionTitleStyle.Render("Focus: "+m.day.WorkUnit.Title) + "\n" + mutedStyle.Render("(not an open work unit)")
		}
		return sectionTitleStyle.Render("Focus") + "\n" + mutedStyle.Render("Nothing picked yet. Press f to choose a work unit.")
	}

	lines := []string{sectionTitleStyle.Render("Focus: " + unit.Title)}
	if unit.Outcome != "" {
		lines = append(lines, mutedStyle.Render("Outcome: "+unit.Outcome))
	}
	if len(unit.ChecklistItems) == 0 {
		lines = append(lines, mutedStyle.Render("No checklist items."))
	}
	for i, item := range unit.ChecklistItems {
		box := "[ ]"
		label := item.Label
		if item.IsDone {
			box = "[x]"
			label = doneStyle.Render(label)
		}
		line := box + " " + label
		if i == m.itemCursor && m.state == StateToday {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewText(t editTarget, value string) string {
	title := sectionTitleStyle.Render(t.label())
	if m.state == StateEditing && m.target == t {
		return title + "\n" + m.editor.View()
	}
	if strings.TrimSpace(value) == "" {
		return title + "\n" + mutedStyle.Render("(empty)")
	}
	return title + "\n" + value
}

func (m Model) viewCheckpoint() string {
	cp := m.day.Checkpoint
	if cp == nil {
		return mutedStyle.Render("No checkpoint yet. Press c to close the day.")
	}
	lines := []string{sectionTitleStyle.Render("Checkpoint")}
	if cp.CompletedSummary != "" {
		lines = append(lines, "Done: "+cp.CompletedSummary)
	}
	if cp.NextStep != "" {
		lines = append(lines, "Next: "+cp.NextStep)
	}
	if cp.Blockers != "" {
		lines = append(lines, "Blockers: "+cp.Blockers)
	}
	if cp.Mood != "" {
		lines = append(lines, "Mood: "+string(cp.Mood))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewUnits() string {
	lines := []string{titleStyle.Render("Pick today's focus")}
	if len(m.units) == 0 {
		lines = append(lines, mutedStyle.Render("No active work units. Add one with `dailyos unit add`."))
	}
	for i, w := range m.units {
		c := w.Counts()
		line := fmt.Sprintf("%s (%d/%d)", w.Title, c.CompletedCount, c.TotalCount)
		if w.Status == models.WorkUnitParked {
			line += mutedStyle.Render(" parked")
		}
		if i == m.unitCursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return sectionStyle.Render(dangerStyle.Render(m.status))
	}
	return sectionStyle.Render(okStyle.Render(m.status))
}
