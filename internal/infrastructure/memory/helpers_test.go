package memory_test

import "time"

func testNow() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
}
