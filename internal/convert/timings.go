package convert

import (
	"time"

	"go.uber.org/zap"
)

// Timings collects phase durations of one conversion for the server log.
type Timings struct {
	Map     time.Duration
	Write   time.Duration
	Publish time.Duration
}

// Fields renders the timings as zap fields.
func (t Timings) Fields() []zap.Field {
	return []zap.Field{
		zap.Duration("mapDuration", t.Map),
		zap.Duration("writeDuration", t.Write),
		zap.Duration("publishDuration", t.Publish),
	}
}
