package usage

import "time"

func defaultUsage() Usage {
	return Usage{
		Plan:     "Starter",
		Limit:    100,
		Used:     0,
		ResetsAt: nextPeriodStart(time.Now().UTC()),
	}
}

// nextPeriodStart is midnight UTC on the first day of the next month.
func nextPeriodStart(now time.Time) time.Time {
	year, month, _ := now.UTC().Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}
