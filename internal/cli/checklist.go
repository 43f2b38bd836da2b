package cli

import (
	"github.com/julianstephens/dailyos/internal/models"
)

// resolveChecklistItem searches the checklists of all the user's units.
func resolveChecklistItem(ctx *Context, ref string) (models.ChecklistItem, error) {
	svc := ctx.Service()
	units, err := svc.WorkUnits(ctx.UserID, "")
	if err != nil {
		return models.ChecklistItem{}, err
	}

	byID := map[string]models.ChecklistItem{}
	var ids []string
	for _, wu := range units {
		detail, err := svc.WorkUnit(ctx.UserID, wu.ID)
		if err != nil {
			return models.ChecklistItem{}, err
		}
		for _, item := range detail.ChecklistItems {
			byID[item.ID] = item
			ids = append(ids, item.ID)
		}
	}
	id, err := resolveID("checklist item", ref, ids)
	if err != nil {
		return models.ChecklistItem{}, err
	}
	return byID[id], nil
}

type CheckAddCmd struct {
	Unit     string `arg:"" help:"Work unit id or unique prefix."`
	Label    string `arg:"" help:"Checklist item text."`
	Position *int   `help:"Explicit position. Defaults to the end of the list."`
}

func (c *CheckAddCmd) Run(ctx *Context) error {
	wu, err := resolveWorkUnit(ctx, c.Unit)
	if err != nil {
		return err
	}
	item, err := ctx.Service().AddChecklistItem(ctx.UserID, wu.ID, c.Label, c.Position)
	if err != nil {
		return err
	}
	ctx.printf("✓ Added %q to %s (%s)\n", item.Label, wu.Title, shortID(item.ID))
	return nil
}

type CheckToggleCmd struct {
	Item string `arg:"" help:"Checklist item id or unique prefix."`
}

func (c *CheckToggleCmd) Run(ctx *Context) error {
	item, err := resolveChecklistItem(ctx, c.Item)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().ToggleChecklistItem(ctx.UserID, item.ID, !item.IsDone)
	if err != nil {
		return err
	}
	ctx.printf("%s %s\n", checkbox(updated.IsDone), updated.Label)
	return nil
}

type CheckRenameCmd struct {
	Item  string `arg:"" help:"Checklist item id or unique prefix."`
	Label string `arg:"" help:"New text."`
}

func (c *CheckRenameCmd) Run(ctx *Context) error {
	item, err := resolveChecklistItem(ctx, c.Item)
	if err != nil {
		return err
	}
	updated, err := ctx.Service().RenameChecklistItem(ctx.UserID, item.ID, c.Label)
	if err != nil {
		return err
	}
	ctx.printf("✓ Renamed to %q\n", updated.Label)
	return nil
}

type CheckDeleteCmd struct {
	Item string `arg:"" help:"Checklist item id or unique prefix."`
}

func (c *CheckDeleteCmd) Run(ctx *Context) error {
	item, err := resolveChecklistItem(ctx, c.Item)
	if err != nil {
		return err
	}
	if _, err := ctx.Service().DeleteChecklistItem(ctx.UserID, item.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted %q\n", item.Label)
	return nil
}
