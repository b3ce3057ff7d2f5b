package jsontree

import "time"

// TicksPerSecond is the number of FileTime ticks (100ns intervals) per
// second.
const TicksPerSecond = 10000000

// unixEpochTicks is 1970-01-01T00:00:00Z expressed in ticks since
// 1601-01-01T00:00:00Z.
const unixEpochTicks = 116444736000000000

// FileTime is a point in time expressed as 100ns intervals since
// 1601-01-01T00:00:00Z, the wire format of Time payloads.
type FileTime uint64

// FileTimeFromTime converts a time.Time to ticks since 1601. Precision
// below 100ns is truncated.
func FileTimeFromTime(t time.Time) FileTime {
	ticks := t.Unix()*TicksPerSecond + int64(t.Nanosecond())/100
	return FileTime(uint64(ticks) + unixEpochTicks)
}

// Time converts the tick count to a time.Time in UTC. The split into
// seconds and remainder keeps the arithmetic inside int64 range even
// for tick counts far beyond year 9999.
func (ft FileTime) Time() time.Time {
	sec := int64(uint64(ft)/TicksPerSecond) - unixEpochTicks/TicksPerSecond
	rem := int64(uint64(ft) % TicksPerSecond)
	return time.Unix(sec, rem*100).UTC()
}
