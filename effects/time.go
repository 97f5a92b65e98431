package effects

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rickb777/date/v2/timespan"
)

type TimeSpan = timespan.TimeSpan

// stampWidth is how far a stamp extends on each side of the observed instant.
const stampWidth = time.Millisecond

// StampOf brackets clock's current instant, for records whose exact ordering
// across workers cannot be trusted to the nanosecond.
func StampOf(clock clockwork.Clock) TimeSpan {
	now := clock.Now()
	return timespan.BetweenTimes(now.Add(-stampWidth), now.Add(stampWidth))
}
