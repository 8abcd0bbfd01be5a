// Package analytics derives summary metrics from the click history of a
// shortened URL. Summarize is a pure function over the record's events; it
// never mutates the record or touches storage.
package analytics

import (
	"regexp"
	"time"

	"github.com/vadimbarashkov/shortly/internal/entity"
)

// Device classes reported in Summary.Devices. Classification is a
// case-insensitive substring match on the "mobile" token; everything else
// with a user agent counts as desktop.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
)

var mobilePattern = regexp.MustCompile(`(?i)mobile`)

// Summary contains the aggregated metrics for one shortened URL.
type Summary struct {
	TotalClicks   int64
	ClicksLast24h int64
	Devices       map[string]int64
	Timeline      []entity.ClickEvent
}

// Summarize aggregates the click events of url as of now.
//
// TotalClicks reports the record's counter. ClicksLast24h counts events
// strictly newer than now minus 24 hours. Devices always carries both the
// mobile and desktop keys, each counting events by user agent; events with
// an empty user agent are excluded from both buckets. Timeline is the full
// ordered event list, unfiltered.
func Summarize(url *entity.URL, now time.Time) *Summary {
	s := &Summary{
		TotalClicks: url.Clicks,
		Devices: map[string]int64{
			DeviceMobile:  0,
			DeviceDesktop: 0,
		},
		Timeline: url.ClickEvents,
	}
	if s.Timeline == nil {
		s.Timeline = []entity.ClickEvent{}
	}

	cutoff := now.Add(-24 * time.Hour)

	for _, click := range url.ClickEvents {
		if click.Timestamp.After(cutoff) {
			s.ClicksLast24h++
		}

		if click.UserAgent == "" {
			continue
		}

		if mobilePattern.MatchString(click.UserAgent) {
			s.Devices[DeviceMobile]++
		} else {
			s.Devices[DeviceDesktop]++
		}
	}

	return s
}
