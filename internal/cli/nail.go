package cli

import (
	"strings"

	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/models"
)

// resolveNail looks the nail up among today's nails.
func resolveNail(ctx *Context, ref string) (models.DailyNail, error) {
	today, err := ctx.Service().TodayDay(ctx.UserID)
	if err != nil {
		return models.DailyNail{}, err
	}
	byID := make(map[string]models.DailyNail, len(today.DailyNails))
	ids := make([]string, 0, len(today.DailyNails))
	for _, n := range today.DailyNails {
		byID[n.ID] = n
		ids = append(ids, n.ID)
	}
	id, err := resolveID("nail", ref, ids)
	if err != nil {
		return models.DailyNail{}, err
	}
	return byID[id], nil
}

type NailAddCmd struct {
	Label []string `arg:"" help:"What must get done today."`
	Unit  string   `help:"Work unit the nail belongs to."`
}

func (c *NailAddCmd) Run(ctx *Context) error {
	svc := ctx.Service()
	today, err := svc.TodayDay(ctx.UserID)
	if err != nil {
		return err
	}
	in := actions.NailInput{DayID: today.ID, Label: strings.Join(c.Label, " ")}
	if c.Unit != "" {
		wu, err := resolveWorkUnit(ctx, c.Unit)
		if err != nil {
			return err
		}
		in.WorkUnitID = &wu.ID
	}

	nail, err := svc.AddDailyNail(ctx.UserID, in)
	if err != nil {
		return err
	}
	ctx.printf("✓ Added nail %q (%s)\n", nail.Label, shortID(nail.ID))
	return nil
}

type NailToggleCmd struct {
	Nail string `arg:"" help:"Nail id or unique prefix."`
}

func (c *NailToggleCmd) Run(ctx *Context) error {
	nail, err := resolveNail(ctx, c.Nail)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().ToggleDailyNail(ctx.UserID, nail.ID, !nail.IsDone)
	if err != nil {
		return err
	}
	ctx.printf("%s %s\n", checkbox(updated.IsDone), updated.Label)
	return nil
}

type NailDeleteCmd struct {
	Nail string `arg:"" help:"Nail id or unique prefix."`
}

func (c *NailDeleteCmd) Run(ctx *Context) error {
	nail, err := resolveNail(ctx, c.Nail)
	if err != nil {
		return err
	}
	if err := ctx.Service().DeleteDailyNail(ctx.UserID, nail.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted nail %q\n", nail.Label)
	return nil
}
