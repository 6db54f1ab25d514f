package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/activityhub/internal/client/models"
)

// Feed lists activities for the current profile.
func (a *App) Feed(ctx context.Context) error {
	items, err := track(ctx, a, a.feedSlot, "Loading feed", a.activities.Feed)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		a.println("No activities yet")
		return nil
	}
	for _, it := range items {
		a.println(formatActivity(it))
	}
	return nil
}

// Join signs the current profile up for the activity given in args.
func (a *App) Join(ctx context.Context, args []string) error {
	id, err := parseID(args, "join <id>")
	if err != nil {
		a.println(err.Error())
		return err
	}

	act, err := track(ctx, a, a.joinSlot, "Joining", func(ctx context.Context) (models.Activity, error) {
		return a.activities.Join(ctx, id)
	})
	if err != nil {
		return err
	}

	a.printf("Joined %q\n", act.Title)
	return nil
}

func formatActivity(it models.Activity) string {
	seats := fmt.Sprintf("%d", it.Participants)
	if it.Capacity > 0 {
		seats = fmt.Sprintf("%d/%d", it.Participants, it.Capacity)
	}

	s := fmt.Sprintf("#%d %s", it.ID, it.Title)
	if it.Category != "" {
		s += " [" + it.Category + "]"
	}
	if it.Location != "" {
		s += " @ " + it.Location
	}
	if !it.StartsAt.IsZero() {
		s += " " + it.StartsAt.Format("2006-01-02 15:04")
	}
	s += " (" + seats + ")"

	switch {
	case it.Joined:
		s += " joined"
	case it.Full():
		s += " full"
	}
	return s
}
