package cli

import (
	"strings"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/models"
)

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	d, err := ctx.Service().TodayDay(ctx.UserID)
	if err != nil {
		return err
	}
	return showDay(ctx, d)
}

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	d, err := ctx.Service().DayByDate(ctx.UserID, c.Date)
	if err != nil {
		return err
	}
	return showDay(ctx, d)
}

func showDay(ctx *Context, d models.DayDetails) error {
	var checklist []models.ChecklistItem
	if d.WorkUnit != nil {
		w, err := ctx.Service().WorkUnit(ctx.UserID, d.WorkUnit.ID)
		if err != nil {
			return err
		}
		checklist = w.ChecklistItems
	}
	ctx.printDay(d, checklist)
	return nil
}

type FocusCmd struct {
	Unit  string `arg:"" optional:"" help:"Work unit id (or unique prefix) to focus on today."`
	Clear bool   `help:"Clear today's focus."`
}

func (c *FocusCmd) Run(ctx *Context) error {
	svc := ctx.Service()
	if c.Clear {
		if _, err := svc.SetTodayWorkUnit(ctx.UserID, ""); err != nil {
			return err
		}
		ctx.println("✓ Cleared today's focus")
		return nil
	}

	wu, err := resolveWorkUnit(ctx, c.Unit, models.OpenStatuses...)
	if err != nil {
		return err
	}
	if _, err := svc.SetTodayWorkUnit(ctx.UserID, wu.ID); err != nil {
		return err
	}
	ctx.printf("✓ Today's focus: %s\n", wu.Title)
	return nil
}

type IntentCmd struct {
	Text []string `arg:"" optional:"" help:"What today is for. Omit to clear."`
}

func (c *IntentCmd) Run(ctx *Context) error {
	svc := ctx.Service()
	today, err := svc.TodayDay(ctx.UserID)
	if err != nil {
		return err
	}
	text := strings.Join(c.Text, " ")
	if _, err := svc.SaveDailyIntent(ctx.UserID, today.ID, text); err != nil {
		return err
	}
	ctx.printf("✓ Intent: %s\n", orDash(text))
	return nil
}

type HorizonCmd struct {
	Horizon models.HorizonType `arg:"" enum:"weekly,monthly,yearly,direction" help:"Horizon to set (weekly, monthly, yearly, direction)."`
	Text    []string           `arg:"" optional:"" help:"Horizon text. Omit to clear."`
}

func (c *HorizonCmd) Run(ctx *Context) error {
	svc := ctx.Service()
	today, err := svc.TodayDay(ctx.UserID)
	if err != nil {
		return err
	}
	text := strings.Join(c.Text, " ")
	if _, err := svc.SaveHorizon(ctx.UserID, today.ID, c.Horizon, text); err != nil {
		return err
	}
	ctx.printf("✓ %s horizon: %s\n", c.Horizon, orDash(text))
	return nil
}

type CheckpointCmd struct {
	Done     string `help:"What got done today."`
	Next     string `help:"The next concrete step."`
	Blockers string `help:"Anything in the way."`
	Mood     string `help:"great, good, okay, tired or stuck."`
	Unit     string `help:"Work unit the checkpoint is about. Defaults to today's focus."`
}

func (c *CheckpointCmd) Run(ctx *Context) error {
	svc := ctx.Service()
	today, err := svc.TodayDay(ctx.UserID)
	if err != nil {
		return err
	}

	in := actions.CheckpointInput{
		DayID:            today.ID,
		WorkUnitID:       today.SelectedWorkUnitID,
		CompletedSummary: c.Done,
		NextStep:         c.Next,
		Blockers:         c.Blockers,
		Mood:             models.Mood(strings.ToLower(strings.TrimSpace(c.Mood))),
	}
	if c.Unit != "" {
		wu, err := resolveWorkUnit(ctx, c.Unit)
		if err != nil {
			return err
		}
		in.WorkUnitID = &wu.ID
	}

	cp, err := svc.SaveCheckpoint(ctx.UserID, in)
	if err != nil {
		return err
	}
	ctx.printf("✓ Checkpoint saved for %s\n", today.Date)
	ctx.printCheckpoint(cp)
	return nil
}

type CheckpointsCmd struct {
	Limit int `help:"How many to show." default:"10"`
}

func (c *CheckpointsCmd) Run(ctx *Context) error {
	cps, err := ctx.Service().RecentCheckpoints(ctx.UserID, c.Limit)
	if err != nil {
		return err
	}
	if len(cps) == 0 {
		ctx.println("No checkpoints yet.")
		return nil
	}
	for _, cp := range cps {
		mood := ""
		if cp.Mood != "" {
			mood = "  (" + string(cp.Mood) + ")"
		}
		ctx.printf("%s  %s%s\n", cp.Date, orDash(cp.CompletedSummary), mood)
		if cp.NextStep != "" {
			ctx.printf("            next: %s\n", cp.NextStep)
		}
	}
	return nil
}

type StreaksCmd struct{}

func (c *StreaksCmd) Run(ctx *Context) error {
	s, err := ctx.Service().MonthlyStreaks(ctx.UserID)
	if err != nil {
		return err
	}
	ctx.printf("Streaks for %s\n", s.CurrentMonth)
	ctx.printf("  showed up:    %d day(s)\n", s.PresenceStreak)
	ctx.printf("  checkpointed: %d day(s)\n", s.CheckpointStreak)
	return nil
}

type MomentumCmd struct{}

func (c *MomentumCmd) Run(ctx *Context) error {
	m, err := ctx.Service().WeeklyMomentum(ctx.UserID)
	if err != nil {
		return err
	}
	for _, d := range m.Days {
		mark := "·"
		switch {
		case d.HasCheckpoint:
			mark = "●"
		case d.HasActivity:
			mark = "○"
		}
		mood := ""
		if d.Mood != "" {
			mood = "  " + string(d.Mood)
		}
		ctx.printf("  %s %s %s%s\n", d.DayOfWeek, d.Date, mark, mood)
	}
	ctx.printf("\n%s (%s)\n", m.Text, m.Trend)
	return nil
}
