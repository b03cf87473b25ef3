package memory

import "time"

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func inPeriod(t time.Time, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
