package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leeya018/gratitudes/internal/client/models"
	"github.com/leeya018/gratitudes/internal/common"
)

func (a *App) isComplete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.complete
}

func (a *App) setComplete(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.complete = v
}

// refreshToday updates the completion flag from the server. Failures leave
// it unchanged; the server rejects extra entries anyway.
func (a *App) refreshToday(ctx context.Context) *models.Today {
	today, err := a.journal.Today(ctx)
	if err != nil {
		a.logger.Debug(ctx, "failed to load today", "error", err)
		return nil
	}
	a.setComplete(today.Complete)
	return today
}

// Add saves one gratitude, taken from the arguments or prompted for. Once
// the day is complete it is re-checked with the server first, so a new day
// reopens the journal.
func (a *App) Add(ctx context.Context, args []string) error {
	if a.isComplete() {
		if today := a.refreshToday(ctx); today == nil || today.Complete {
			fmt.Fprintln(a.out, msgComplete)
			return nil
		}
	}

	text := strings.Join(args, " ")
	if text == "" {
		var err error
		if text, err = getSimpleText(a.reader, "What are you grateful for?", a.out); err != nil {
			return err
		}
	}

	n, err := a.journal.Add(ctx, text)
	if errors.Is(err, common.ErrLimitReached) {
		a.setComplete(true)
	}
	if err != nil {
		return err
	}

	today := a.refreshToday(ctx)
	if today == nil {
		fmt.Fprintf(a.out, "Saved. %d today.\n", n)
		return nil
	}
	fmt.Fprintf(a.out, "Saved. %d of %d today.\n", today.Count, today.Limit)
	if today.Complete {
		fmt.Fprintln(a.out, msgComplete)
	}
	return nil
}

func (a *App) Today(ctx context.Context, _ []string) error {
	today, err := a.journal.Today(ctx)
	if err != nil {
		return err
	}
	a.setComplete(today.Complete)

	fmt.Fprintf(a.out, "%s: %d of %d\n", today.Date, today.Count, today.Limit)
	printGratitudes(a, today.Gratitudes)
	if today.Complete {
		fmt.Fprintln(a.out, msgComplete)
	} else {
		fmt.Fprintf(a.out, "%d more to go. Use 'add' to write one.\n", today.Remaining())
	}
	return nil
}

func (a *App) Count(ctx context.Context, _ []string) error {
	n, err := a.journal.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d gratitudes today.\n", n)
	return nil
}

func (a *App) Dates(ctx context.Context, _ []string) error {
	dates, err := a.journal.Dates(ctx)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No gratitudes yet.")
		return nil
	}
	for _, d := range dates {
		fmt.Fprintln(a.out, d)
	}
	return nil
}

// Show prints the gratitudes of one day.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return common.NewValidationError("Usage: show <YYYY-MM-DD>")
	}
	list, err := a.journal.ForDate(ctx, args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintf(a.out, "No gratitudes on %s.\n", args[0])
		return nil
	}
	printGratitudes(a, list)
	return nil
}

func printGratitudes(a *App, list []*models.Gratitude) {
	for i, g := range list {
		fmt.Fprintf(a.out, "%2d. %s\n", i+1, g.Text)
	}
}
