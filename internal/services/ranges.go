package services

import "time"

const dateLayout = "2006-01-02"

// rangeDays maps chart range keys to their lookback in days.
var rangeDays = map[string]int{
	"d":  1,
	"w":  7,
	"m":  30,
	"3m": 90,
	"6m": 180,
	"y":  365,
}

// NormalizeRange maps unknown range keys to "m".
func NormalizeRange(key string) string {
	if key == "all" {
		return key
	}
	if _, ok := rangeDays[key]; ok {
		return key
	}
	return "m"
}

// RangeStart returns the first snapshot date included in the range, or the
// zero time for "all".
func RangeStart(key string, now time.Time) time.Time {
	key = NormalizeRange(key)
	if key == "all" {
		return time.Time{}
	}
	return startOfDay(now).AddDate(0, 0, -rangeDays[key])
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
