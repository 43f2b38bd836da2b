// Package tui is the terminal Today screen. Reads go through the cache and
// every write to the day or a checklist goes through the synchronizer.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/cache"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/optimistic"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateUnits
	StateEditing
	StateCheckpoint
)

// editTarget names the text being edited: the intent or one horizon.
type editTarget struct {
	intent  bool
	horizon models.HorizonType
}

func (t editTarget) label() string {
	if t.intent {
		return "Daily intent"
	}
	return horizonLabel(t.horizon)
}

type CheckpointFormModel struct {
	CompletedSummary string
	NextStep         string
	Blockers         string
	Mood             models.Mood
}

type Model struct {
	svc    *actions.Service
	cache  *cache.Store
	sync   *optimistic.Synchronizer
	userID string

	state    SessionState
	keys     KeyMap
	help     help.Model
	editor   textarea.Model
	target   editTarget
	form     *huh.Form
	cpForm   *CheckpointFormModel
	quitting bool
	width    int
	height   int

	loaded   bool
	day      models.DayDetails
	units    []models.WorkUnitWithChecklist
	streaks  models.StreakData
	momentum models.MomentumSummary

	itemCursor int
	unitCursor int
	status     string
	statusErr  bool
}

// NewModel builds the screen for userID. The cache must have the actions'
// loaders registered for the same user.
func NewModel(svc *actions.Service, c *cache.Store, sync *optimistic.Synchronizer, userID string) Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(4)

	return Model{
		svc:    svc,
		cache:  c,
		sync:   sync,
		userID: userID,
		state:  StateToday,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		editor: ta,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.listenCmd())
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateUnits:
		return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Back}
	case StateEditing:
		return []key.Binding{m.keys.Back}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// focusUnit returns today's selected unit with its checklist, if it is among
// the open units.
func (m Model) focusUnit() (models.WorkUnitWithChecklist, bool) {
	if !m.day.HasSelection() {
		return models.WorkUnitWithChecklist{}, false
	}
	for _, w := range m.units {
		if w.ID == *m.day.SelectedWorkUnitID {
			return w, true
		}
	}
	return models.WorkUnitWithChecklist{}, false
}

func horizonLabel(h models.HorizonType) string {
	switch h {
	case models.HorizonWeekly:
		return "This week"
	case models.HorizonMonthly:
		return "This month"
	case models.HorizonYearly:
		return "This year"
	case models.HorizonDirection:
		return "Direction"
	}
	return string(h)
}
