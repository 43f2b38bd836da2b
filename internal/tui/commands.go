package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/cache"
	"github.com/julianstephens/dailyos/internal/models"
	"github.com/julianstephens/dailyos/internal/optimistic"
)

type loadedMsg struct {
	day      models.DayDetails
	units    []models.WorkUnitWithChecklist
	streaks  models.StreakData
	momentum models.MomentumSummary
	err      error
}

type syncEventMsg optimistic.Event

// resultMsg reports a finished optimistic intent.
type resultMsg struct {
	res optimistic.Result
}

type flushedMsg struct{}

type checkpointSavedMsg struct {
	err error
}

// loadCmd reads every view through the cache. Fresh entries are served as
// they are; stale or missing ones are refetched.
func (m Model) loadCmd() tea.Cmd {
	c := m.cache
	return func() tea.Msg {
		var msg loadedMsg
		if msg.day, msg.err = cache.Fetch[models.DayDetails](c, cache.TodayDay); msg.err != nil {
			return msg
		}
		if msg.units, msg.err = cache.Fetch[[]models.WorkUnitWithChecklist](c, cache.WorkUnitsActiveWithChecklists); msg.err != nil {
			return msg
		}
		if msg.streaks, msg.err = cache.Fetch[models.StreakData](c, cache.TodayStreaks); msg.err != nil {
			return msg
		}
		msg.momentum, msg.err = cache.Fetch[models.MomentumSummary](c, cache.TodayMomentum)
		return msg
	}
}

// listenCmd waits for the next synchronizer event.
func (m Model) listenCmd() tea.Cmd {
	events := m.sync.Events()
	return func() tea.Msg {
		return syncEventMsg(<-events)
	}
}

func (m Model) toggleCmd(itemID string, done bool) tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		return resultMsg{res: s.ToggleItem(itemID, done)}
	}
}

func (m Model) selectCmd(workUnitID string) tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		return resultMsg{res: s.SetTodayWorkUnit(workUnitID)}
	}
}

func (m Model) flushCmd(field *optimistic.TextField) tea.Cmd {
	return func() tea.Msg {
		field.Flush()
		return flushedMsg{}
	}
}

func (m Model) saveCheckpointCmd(in actions.CheckpointInput) tea.Cmd {
	svc, c, userID := m.svc, m.cache, m.userID
	return func() tea.Msg {
		if _, err := svc.SaveCheckpoint(userID, in); err != nil {
			return checkpointSavedMsg{err: err}
		}
		c.Invalidate(cache.TodayDay, cache.TodayStreaks, cache.TodayMomentum)
		return checkpointSavedMsg{}
	}
}
