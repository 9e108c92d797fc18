package ledger

import (
	"maps"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stats counts what happened to the records of a run.
type Stats struct {
	Records   int            // rows read, malformed ones included
	Applied   int            // records that changed an account
	Malformed int            // rows rejected before reaching the engine
	Discarded map[string]int // skipped records by reason
}

func newStats() Stats {
	return Stats{Discarded: make(map[string]int)}
}

// DiscardedTotal sums the skipped records over all reasons.
func (s Stats) DiscardedTotal() int {
	total := 0
	for _, n := range s.Discarded {
		total += n
	}
	return total
}

func (s Stats) clone() Stats {
	out := s
	out.Discarded = maps.Clone(s.Discarded)
	if out.Discarded == nil {
		out.Discarded = make(map[string]int)
	}
	return out
}

// MarshalLogObject lets the stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("records", s.Records)
	enc.AddInt("applied", s.Applied)
	enc.AddInt("malformed", s.Malformed)
	return enc.AddObject("discarded", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		for reason, n := range s.Discarded {
			enc.AddInt(reason, n)
		}
		return nil
	}))
}

var _ zapcore.ObjectMarshaler = Stats{}

func statsField(s Stats) zap.Field {
	return zap.Object("stats", s)
}
