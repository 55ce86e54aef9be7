// Package nice formats numbers and durations for humans.
package nice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Uint formats n with thousands separators, e.g. 1,234,567.
func Uint(n uint32) string {
	return humanize.Comma(int64(n))
}

// Bytes formats a byte count using binary units, e.g. 1.5 MiB.
func Bytes(n uint64) string {
	return humanize.IBytes(n)
}

// Percent returns done/total as a percentage with two decimals. The value is
// floored so an unfinished job never reads 100.00%.
func Percent(done, total uint32) string {
	if total == 0 || done == 0 {
		return "0.00%"
	}
	if done >= total {
		return "100.00%"
	}

	bp := uint64(done) * 10_000 / uint64(total)
	return fmt.Sprintf("%d.%02d%%", bp/100, bp%100)
}

// Clock formats d as HH:MM:SS. Days, if any, are folded into the hours.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Elapsed spells out d in words, e.g. "1 minute and 40 seconds" or
// "3 days, 10 minutes, and 15 seconds". Precision stops at the second.
func Elapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	switch {
	case secs <= 0:
		return "0 seconds"
	case secs == 1:
		return "1 second"
	}

	units := []struct {
		size   int64
		single string
		plural string
	}{
		{86_400, "day", "days"},
		{3_600, "hour", "hours"},
		{60, "minute", "minutes"},
		{1, "second", "seconds"},
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		n := secs / u.size
		if n == 0 {
			continue
		}
		secs -= n * u.size

		noun := u.plural
		if n == 1 {
			noun = u.single
		}
		parts = append(parts, strconv.FormatInt(n, 10)+" "+noun)
	}

	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}
