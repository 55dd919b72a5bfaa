package reconcile

import (
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/entry"
	"github.com/spigell/career-checker/internal/logger"
)

// Tolerance is the largest accepted gap, in days, between a stated day count
// and the calendar count.
const Tolerance = 30

// Outcome describes what happened to one entry.
type Outcome struct {
	Entry        entry.CareerEntry
	Start        time.Time
	End          time.Time
	CalendarDays int
	Corrected    bool
	Ambiguous    bool
	// StatedBefore keeps the day counts that were replaced.
	StatedBefore []string
}

type Reconciler struct {
	dates  DateParser
	logger *zap.Logger
}

func New(dates DateParser, log *zap.Logger) *Reconciler {
	if dates.now == nil {
		dates = NewDateParser(nil)
	}
	return &Reconciler{dates: dates, logger: logger.WithFields(log)}
}

// Reconcile normalizes the dates of e and checks its stated day counts against
// the calendar. A stated count more than Tolerance days away from the calendar
// count is replaced and the entry flagged auto-corrected. Missing counts are
// filled from the calendar. Unparseable dates are left empty and flagged.
func (r *Reconciler) Reconcile(e entry.CareerEntry) Outcome {
	out := Outcome{Entry: e}
	fields := append(logger.StageFields("reconcile", e.Provenance.Page+1), zap.Int("sequence", e.Provenance.Sequence))

	start, startOK := r.parse(&out, &out.Entry.StartDate, fields)
	end, endOK := r.parse(&out, &out.Entry.EndDate, fields)
	if !startOK || !endOK {
		return out
	}

	out.Start, out.End = start, end
	out.CalendarDays = CalendarDays(start, end)
	if out.CalendarDays == 0 {
		r.logger.Warn("end date is before start date", append(fields,
			zap.String("start", out.Entry.StartDate),
			zap.String("end", out.Entry.EndDate),
		)...)
		return out
	}

	r.check(&out, &out.Entry.RecognizedDays, "recognized", fields)
	r.check(&out, &out.Entry.ParticipatedDays, "participated", fields)
	return out
}

func (r *Reconciler) parse(out *Outcome, value *string, fields []zap.Field) (time.Time, bool) {
	if *value == "" {
		return time.Time{}, false
	}
	t, err := r.dates.Parse(*value)
	if err != nil {
		r.logger.Warn("date left empty", append(fields, zap.Error(err))...)
		*value = ""
		out.Ambiguous = true
		out.Entry = out.Entry.WithFlag(entry.FlagDateAmbiguous)
		return time.Time{}, false
	}
	*value = FormatDate(t)
	return t, true
}

func (r *Reconciler) check(out *Outcome, stated *string, kind string, fields []zap.Field) {
	calendar := FormatDays(out.CalendarDays)

	if *stated == "" {
		*stated = calendar
		out.Entry = out.Entry.WithFlag(entry.FlagComputed)
		return
	}

	n, err := ParseDays(*stated)
	if err != nil {
		r.logger.Warn("unreadable day count replaced with calendar count", append(fields,
			zap.String("kind", kind),
			zap.String("stated", *stated),
		)...)
		*stated = calendar
		out.Entry = out.Entry.WithFlag(entry.FlagComputed)
		return
	}

	if abs(n-out.CalendarDays) <= Tolerance {
		*stated = FormatDays(n)
		return
	}

	r.logger.Warn("day count auto-corrected", append(fields,
		zap.String("kind", kind),
		zap.Int("stated", n),
		zap.Int("calendar", out.CalendarDays),
	)...)
	out.StatedBefore = append(out.StatedBefore, *stated)
	*stated = calendar
	out.Corrected = true
	out.Entry = out.Entry.WithFlag(entry.FlagAutoCorrected)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
