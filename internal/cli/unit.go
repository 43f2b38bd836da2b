package cli

import (
	"github.com/julianstephens/dailyos/internal/actions"
	"github.com/julianstephens/dailyos/internal/models"
)

// resolveWorkUnit finds one of the user's units by id or unique id prefix,
// optionally limited to statuses.
func resolveWorkUnit(ctx *Context, ref string, statuses ...models.WorkUnitStatus) (models.WorkUnit, error) {
	units, err := ctx.Service().WorkUnits(ctx.UserID, "")
	if err != nil {
		return models.WorkUnit{}, err
	}
	allowed := map[models.WorkUnitStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}

	byID := make(map[string]models.WorkUnit, len(units))
	ids := make([]string, 0, len(units))
	for _, wu := range units {
		if len(allowed) > 0 && !allowed[wu.Status] {
			continue
		}
		byID[wu.ID] = wu
		ids = append(ids, wu.ID)
	}
	id, err := resolveID("work unit", ref, ids)
	if err != nil {
		return models.WorkUnit{}, err
	}
	return byID[id], nil
}

type UnitAddCmd struct {
	Title    string                `arg:"" help:"Short name of the work unit."`
	Outcome  string                `help:"What finishing it produces."`
	DoneWhen string                `name:"done-when" help:"How you will know it is done."`
	Status   models.WorkUnitStatus `help:"Initial status." enum:"active,parked,completed,archived" default:"active"`
}

func (c *UnitAddCmd) Run(ctx *Context) error {
	wu, err := ctx.Service().CreateWorkUnit(ctx.UserID, actions.WorkUnitInput{
		Title:    c.Title,
		Outcome:  c.Outcome,
		DoneWhen: c.DoneWhen,
		Status:   c.Status,
	})
	if err != nil {
		return err
	}
	ctx.printf("✓ Added work unit %s (%s)\n", wu.Title, shortID(wu.ID))
	return nil
}

type UnitListCmd struct {
	Status string `help:"Only show units with this status." enum:"active,parked,completed,archived,open,all" default:"open"`
}

func (c *UnitListCmd) Run(ctx *Context) error {
	svc := ctx.Service()

	var units []models.WorkUnitWithCounts
	if c.Status == "open" {
		var err error
		if units, err = svc.ActiveWorkUnitsWithCounts(ctx.UserID); err != nil {
			return err
		}
	} else {
		status := models.WorkUnitStatus(c.Status)
		if c.Status == "all" {
			status = ""
		}
		list, err := svc.WorkUnits(ctx.UserID, status)
		if err != nil {
			return err
		}
		for _, wu := range list {
			units = append(units, models.WorkUnitWithCounts{WorkUnit: wu})
		}
	}

	if len(units) == 0 {
		ctx.println("No work units found.")
		return nil
	}
	for _, wu := range units {
		ctx.printWorkUnitLine(wu.WorkUnit, wu.CompletedCount, wu.TotalCount)
	}
	return nil
}

type UnitShowCmd struct {
	Unit string `arg:"" help:"Work unit id or unique prefix."`
}

func (c *UnitShowCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	detail, err := ctx.Service().WorkUnit(ctx.UserID, wu.ID)
	if err != nil {
		return err
	}
	ctx.printWorkUnit(detail)

	cp, err := ctx.Service().LatestCheckpoint(ctx.UserID, wu.ID)
	if err != nil {
		return err
	}
	if cp != nil {
		ctx.println()
		ctx.printCheckpoint(*cp)
	}
	return nil
}

type UnitEditCmd struct {
	Unit     string  `arg:"" help:"Work unit id or unique prefix."`
	Title    *string `help:"New title."`
	Outcome  *string `help:"New outcome."`
	DoneWhen *string `name:"done-when" help:"New done-when criterion."`
}

func (c *UnitEditCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().UpdateWorkUnit(ctx.UserID, wu.ID, actions.WorkUnitPatch{
		Title:    c.Title,
		Outcome:  c.Outcome,
		DoneWhen: c.DoneWhen,
	})
	if err != nil {
		return err
	}
	ctx.printf("✓ Updated work unit %s\n", updated.Title)
	return nil
}

type UnitStatusCmd struct {
	Unit   string                `arg:"" help:"Work unit id or unique prefix."`
	Status models.WorkUnitStatus `arg:"" enum:"active,parked,completed,archived" help:"New status."`
}

func (c *UnitStatusCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().SetWorkUnitStatus(ctx.UserID, wu.ID, c.Status)
	if err != nil {
		return err
	}
	ctx.printf("✓ %s is now %s\n", updated.Title, updated.Status)
	return nil
}

type UnitCompleteCmd struct {
	Unit string `arg:"" help:"Work unit id or unique prefix."`
}

func (c *UnitCompleteCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().CompleteWorkUnit(ctx.UserID, wu.ID)
	if err != nil {
		return err
	}
	ctx.printf("✓ Completed %s\n", updated.Title)
	return nil
}

type UnitDeleteCmd struct {
	Unit string `arg:"" help:"Work unit id or unique prefix."`
}

func (c *UnitDeleteCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	if err := ctx.Service().DeleteWorkUnit(ctx.UserID, wu.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted work unit %s and its checklist\n", wu.Title)
	return nil
}
