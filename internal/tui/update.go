package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/optimistic"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.editor.SetWidth(max(msg.Width-6, 20))
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to load today: %v", msg.err), true)
			return m, nil
		}
		m.loaded = true
		m.day, m.units, m.streaks, m.momentum = msg.day, msg.units, msg.streaks, msg.momentum
		m.sync.RefreshFields(msg.day.Day)
		m.clampCursors()
		return m, nil

	case syncEventMsg:
		return m.handleSyncEvent(optimistic.Event(msg))

	case resultMsg:
		if !msg.res.OK() {
			// The cache was restored; reread it to drop the local change.
			return m, m.loadCmd()
		}
		return m, nil

	case flushedMsg:
		return m, nil

	case checkpointSavedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Failed to save checkpoint: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("Checkpoint saved", false)
		return m, m.loadCmd()
	}

	switch m.state {
	case StateEditing:
		return m.updateEditing(msg)
	case StateCheckpoint:
		return m.updateCheckpoint(msg)
	case StateUnits:
		return m.updateUnits(msg)
	}
	return m.updateToday(msg)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m Model) handleSyncEvent(e optimistic.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listenCmd()}
	switch e.Kind {
	case optimistic.EventError:
		m.setStatus(e.Message(), true)
	case optimistic.EventSaved:
		m.setStatus(e.Message(), false)
	case optimistic.EventInvalidated:
		cmds = append(cmds, m.loadCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) clampCursors() {
	if unit, ok := m.focusUnit(); ok {
		m.itemCursor = clamp(m.itemCursor, len(unit.ChecklistItems))
	} else {
		m.itemCursor = 0
	}
	m.unitCursor = clamp(m.unitCursor, len(m.units))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m Model) updateToday(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		m.sync.Flush()
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, m.loadCmd()
	case key.Matches(keyMsg, m.keys.Up):
		m.itemCursor = clamp(m.itemCursor-1, m.itemCount())
	case key.Matches(keyMsg, m.keys.Down):
		m.itemCursor = clamp(m.itemCursor+1, m.itemCount())
	case key.Matches(keyMsg, m.keys.Toggle):
		return m.toggleCurrentItem()
	case key.Matches(keyMsg, m.keys.Focus):
		m.state = StateUnits
	case key.Matches(keyMsg, m.keys.Clear):
		if m.day.HasSelection() {
			return m.selectUnit("")
		}
	case key.Matches(keyMsg, m.keys.Intent):
		return m.startEditing(editTarget{intent: true})
	case key.Matches(keyMsg, m.keys.Horizon):
		h := models.HorizonTypes[int(keyMsg.String()[0]-'1')]
		return m.startEditing(editTarget{horizon: h})
	case key.Matches(keyMsg, m.keys.Checkpoint):
		return m.startCheckpoint()
	}
	return m, nil
}

func (m Model) itemCount() int {
	unit, ok := m.focusUnit()
	if !ok {
		return 0
	}
	return len(unit.ChecklistItems)
}

// toggleCurrentItem flips the item under the cursor locally and sends the
// write. A failed write reloads the restored cache.
func (m Model) toggleCurrentItem() (tea.Model, tea.Cmd) {
	unit, ok := m.focusUnit()
	if !ok || len(unit.ChecklistItems) == 0 {
		return m, nil
	}
	item := unit.ChecklistItems[m.itemCursor]
	done := !item.IsDone

	units := make([]models.WorkUnitWithChecklist, len(m.units))
	copy(units, m.units)
	for i := range units {
		if units[i].ID != unit.ID {
			continue
		}
		items := append([]models.ChecklistItem(nil), units[i].ChecklistItems...)
		items[m.itemCursor].IsDone = done
		units[i].ChecklistItems = items
	}
	m.units = units
	return m, m.toggleCmd(item.ID, done)
}

func (m Model) updateUnits(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Back), key.Matches(keyMsg, m.keys.Quit):
		m.state = StateToday
	case key.Matches(keyMsg, m.keys.Up):
		m.unitCursor = clamp(m.unitCursor-1, len(m.units))
	case key.Matches(keyMsg, m.keys.Down):
		m.unitCursor = clamp(m.unitCursor+1, len(m.units))
	case key.Matches(keyMsg, m.keys.Select):
		if len(m.units) == 0 {
			return m, nil
		}
		m.state = StateToday
		return m.selectUnit(m.units[m.unitCursor].ID)
	}
	return m, nil
}

// selectUnit shows the new focus at once and sends the write.
func (m Model) selectUnit(id string) (tea.Model, tea.Cmd) {
	m.day = m.day.Clone()
	if id == "" {
		m.day.SelectedWorkUnitID, m.day.WorkUnit = nil, nil
	} else {
		m.day.SelectedWorkUnitID = &id
		for _, w := range m.units {
			if w.ID == id {
				wu := w.WorkUnit
				m.day.WorkUnit = &wu
			}
		}
	}
	m.itemCursor = 0
	return m, m.selectCmd(id)
}

func (m Model) field(t editTarget) *optimistic.TextField {
	if t.intent {
		return m.sync.IntentField(m.day.ID)
	}
	return m.sync.HorizonField(m.day.ID, t.horizon)
}

func (m Model) startEditing(t editTarget) (tea.Model, tea.Cmd) {
	if !m.loaded {
		return m, nil
	}
	m.target = t
	m.state = StateEditing
	m.editor.SetValue(m.field(t).Value())
	m.editor.Placeholder = t.label()
	return m, m.editor.Focus()
}

// updateEditing forwards keys to the editor and reports every change to the
// field, which writes it after the autosave delay. Esc writes at once.
func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.editor.Blur()
		m.state = StateToday
		return m, m.flushCmd(m.field(m.target))
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if value := m.editor.Value(); value != before {
		if m.target.intent {
			m.sync.EditIntent(m.day.ID, value)
			m.day.DailyIntent = value
		} else {
			m.sync.EditHorizon(m.day.ID, m.target.horizon, value)
			m.day.Day = m.day.Day.WithHorizon(m.target.horizon, value)
		}
	}
	return m, cmd
}

func (m Model) startCheckpoint() (tea.Model, tea.Cmd) {
	if !m.loaded {
		return m, nil
	}
	m.cpForm = &CheckpointFormModel{}
	if cp := m.day.Checkpoint; cp != nil {
		m.cpForm.CompletedSummary = cp.CompletedSummary
		m.cpForm.NextStep = cp.NextStep
		m.cpForm.Blockers = cp.Blockers
		m.cpForm.Mood = cp.Mood
	}
	m.form = newCheckpointForm(m.cpForm)
	m.state = StateCheckpoint
	return m, m.form.Init()
}

func newCheckpointForm(fm *CheckpointFormModel) *huh.Form {
	moods := []huh.Option[models.Mood]{huh.NewOption("(skip)", models.Mood(""))}
	for _, mood := range models.Moods {
		moods = append(moods, huh.NewOption(string(mood), mood))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What got done?").
				Value(&fm.CompletedSummary),
			huh.NewText().
				Title("Next step").
				Value(&fm.NextStep),
			huh.NewText().
				Title("Blockers").
				Value(&fm.Blockers),
			huh.NewSelect[models.Mood]().
				Title("Mood").
				Options(moods...).
				Value(&fm.Mood),
		),
	)
}

func (m Model) updateCheckpoint(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateToday
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		in := actions.CheckpointInput{
			DayID:            m.day.ID,
			WorkUnitID:       m.day.SelectedWorkUnitID,
			CompletedSummary: strings.TrimSpace(m.cpForm.CompletedSummary),
			NextStep:         strings.TrimSpace(m.cpForm.NextStep),
			Blockers:         strings.TrimSpace(m.cpForm.Blockers),
			Mood:             m.cpForm.Mood,
		}
		m.state = StateToday
		m.form = nil
		return m, m.saveCheckpointCmd(in)
	case huh.StateAborted:
		m.state = StateToday
		m.form = nil
		return m, nil
	}
	return m, cmd
}
