package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/streak"
)

type reportRow struct {
	Username string
	Streak   int
	LastPost string
	Status   string
}

// statusOf describes what the user's next activity today would do to the streak.
func statusOf(u domain.User, today domain.Date) string {
	if u.LastPostDate == nil {
		return "never posted"
	}
	switch streak.Decide(today, u.LastPostDate) {
	case domain.StreakKept:
		return "active today"
	case domain.StreakExtended:
		return "due today"
	default:
		return "lapsed"
	}
}

func buildReport(users []domain.User, today domain.Date) []reportRow {
	rows := make([]reportRow, 0, len(users))
	for _, u := range users {
		last := "-"
		if u.LastPostDate != nil {
			last = u.LastPostDate.String()
		}
		rows = append(rows, reportRow{
			Username: u.Username,
			Streak:   u.Streak,
			LastPost: last,
			Status:   statusOf(u, today),
		})
	}
	return rows
}

func writeReport(w io.Writer, rows []reportRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tSTREAK\tLAST POST\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.Username, r.Streak, r.LastPost, r.Status)
	}
	return tw.Flush()
}
