package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyos/internal/models"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// resolveID matches ref against ids exactly or by unique prefix, so the
// short ids printed by list commands can be typed back in.
func resolveID(kind, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no %s matches %q", kind, ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%q matches %d %ss; use more characters", ref, len(matches), kind)
}

func (c *Context) printWorkUnitLine(wu models.WorkUnit, done, total int) {
	counts := ""
	if total > 0 {
		counts = fmt.Sprintf("  [%d/%d]", done, total)
	}
	c.printf("  %s  %-9s %s%s\n", shortID(wu.ID), wu.Status, wu.Title, counts)
}

func (c *Context) printWorkUnit(w models.WorkUnitWithChecklist) {
	counts := w.Counts()
	c.printf("%s  (%s)\n", w.Title, w.Status)
	c.printf("  id:        %s\n", w.ID)
	c.printf("  outcome:   %s\n", orDash(w.Outcome))
	c.printf("  done when: %s\n", orDash(w.DoneWhen))
	if w.CompletedAt != nil {
		c.printf("  completed: %s\n", w.CompletedAt.Format("2006-01-02 15:04"))
	}
	c.printf("  checklist: %d/%d done\n", counts.CompletedCount, counts.TotalCount)
	c.printChecklist(w.ChecklistItems)
}

func (c *Context) printChecklist(items []models.ChecklistItem) {
	for _, item := range items {
		c.printf("    %s %s  (%s)\n", checkbox(item.IsDone), item.Label, shortID(item.ID))
	}
}

func (c *Context) printDay(d models.DayDetails, checklist []models.ChecklistItem) {
	c.printf("Day %s\n\n", d.Date)

	if d.WorkUnit != nil {
		c.printf("Focus:  %s  (%s)\n", d.WorkUnit.Title, d.WorkUnit.Status)
		c.printChecklist(checklist)
	} else {
		c.println("Focus:  none selected ('dailyos focus <unit>')")
	}
	c.printf("Intent: %s\n", orDash(d.DailyIntent))

	c.println("\nHorizons:")
	for _, h := range models.HorizonTypes {
		c.printf("  %-10s %s\n", h+":", orDash(d.Horizon(h)))
	}

	if len(d.DailyNails) > 0 {
		c.printf("\nNails (%d):\n", len(d.DailyNails))
		for _, n := range d.DailyNails {
			c.printf("  %s %s  (%s)\n", checkbox(n.IsDone), n.Label, shortID(n.ID))
		}
	}

	c.println()
	if d.Checkpoint == nil {
		c.println("Checkpoint: not yet")
		return
	}
	c.printCheckpoint(*d.Checkpoint)
}

func (c *Context) printCheckpoint(cp models.Checkpoint) {
	c.println("Checkpoint:")
	c.printf("  done:     %s\n", orDash(cp.CompletedSummary))
	c.printf("  next:     %s\n", orDash(cp.NextStep))
	c.printf("  blockers: %s\n", orDash(cp.Blockers))
	if cp.Mood != "" {
		c.printf("  mood:     %s\n", cp.Mood)
	}
}
