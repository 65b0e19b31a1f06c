package gamify

import (
	"fmt"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

var (
	messageThresholds = []int{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	dayThresholds     = []int{7, 30, 90, 180, 365, 730}
	streakThresholds  = []int{3, 7, 14, 30, 60, 100}
)

// milestones returns every threshold the conversation has already met.
// The set is monotonic: each entry is at or below the current totals, so
// re-running on a longer export can only add entries, never drop them.
func milestones(in *Input) []model.Milestone {
	reached := make([]model.Milestone, 0, 8)

	for _, t := range messageThresholds {
		if len(in.Messages) >= t {
			reached = append(reached, model.Milestone{
				ID:          fmt.Sprintf("messages_%d", t),
				Name:        fmt.Sprintf("%s Messages", humanCount(t)),
				Description: fmt.Sprintf("Exchanged %s messages", humanCount(t)),
				Threshold:   t,
				Kind:        "messages",
			})
		}
	}

	days := elapsedDays(in)
	for _, t := range dayThresholds {
		if days >= t {
			reached = append(reached, model.Milestone{
				ID:          fmt.Sprintf("days_%d", t),
				Name:        fmt.Sprintf("%d Days Together", t),
				Description: fmt.Sprintf("The conversation spans %d days", t),
				Threshold:   t,
				Kind:        "days",
			})
		}
	}

	longest := longestStreakDays(in)
	for _, t := range streakThresholds {
		if longest >= t {
			reached = append(reached, model.Milestone{
				ID:          fmt.Sprintf("streak_%d", t),
				Name:        fmt.Sprintf("%d-Day Streak", t),
				Description: fmt.Sprintf("Messaged on %d consecutive days", t),
				Threshold:   t,
				Kind:        "streak",
			})
		}
	}

	return reached
}

func humanCount(n int) string {
	if n >= 1000 && n%1000 == 0 {
		return fmt.Sprintf("%dK", n/1000)
	}
	return fmt.Sprintf("%d", n)
}
