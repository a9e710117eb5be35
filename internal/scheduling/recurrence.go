package scheduling

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// RecurrenceSpec describes a batch of showtimes to generate: one
// candidate per qualifying calendar date and time of day.  Weekdays use
// 0=Monday .. 6=Sunday; an empty filter means every day qualifies.
// Times entries are "HH:MM" tokens; a single entry may carry several
// tokens separated by spaces, commas or semicolons.
type RecurrenceSpec struct {
    FilmID    uint64   `json:"film_id"`
    HallID    uint64   `json:"hall_id"`
    StartDate string   `json:"start_date"` // inclusive, YYYY-MM-DD
    EndDate   string   `json:"end_date"`   // inclusive, YYYY-MM-DD
    Times     []string `json:"times"`
    Weekdays  []int    `json:"weekdays,omitempty"`
    Language  string   `json:"language,omitempty"`
    Format    string   `json:"format,omitempty"`
}

// ExpandResult aggregates the per-candidate outcomes of an expansion.
// Skipped and Failed entries are human-readable reasons tagged with the
// candidate's local date and time.
type ExpandResult struct {
    Created []*model.Showtime `json:"created"`
    Skipped []string          `json:"skipped"`
    Failed  []string          `json:"failed"`
}

type timeOfDay struct {
    hour, minute int
}

// Expand generates concrete showtimes for the spec.  The spec is
// validated upfront and rejected whole on any problem; after that, each
// candidate is handled independently: exact (film, hall, starts_at)
// duplicates are skipped so re-running the same spec never duplicates,
// and validation failures (conflicts, missing duration) are recorded
// without aborting the batch.  Cancellation is honored between
// candidates; the partial result is returned alongside ctx.Err().
func (e *Engine) Expand(ctx context.Context, spec RecurrenceSpec) (*ExpandResult, error) {
    start, end, times, weekdays, err := e.parseSpec(spec)
    if err != nil {
        return nil, err
    }

    res := &ExpandResult{Skipped: []string{}, Failed: []string{}}
    for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
        if len(weekdays) > 0 && !weekdays[isoWeekday(day)] {
            continue
        }
        for _, tod := range times {
            if err := ctx.Err(); err != nil {
                return res, err
            }
            startsAt := time.Date(day.Year(), day.Month(), day.Day(), tod.hour, tod.minute, 0, 0, e.loc)
            tag := startsAt.Format("2006-01-02 15:04")

            exists, err := e.store.ShowtimeExistsAt(ctx, spec.FilmID, spec.HallID, startsAt)
            if err != nil {
                res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", tag, err))
                continue
            }
            if exists {
                res.Skipped = append(res.Skipped, fmt.Sprintf("%s: already scheduled", tag))
                continue
            }

            st, err := e.Upsert(ctx, Draft{
                FilmID:   spec.FilmID,
                HallID:   spec.HallID,
                StartsAt: startsAt,
                Language: spec.Language,
                Format:   spec.Format,
            })
            if err != nil {
                res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", tag, err))
                continue
            }
            res.Created = append(res.Created, st)
        }
    }
    return res, nil
}

// parseSpec validates the whole spec and collects every problem before
// reporting, so the caller never fixes errors one at a time.
func (e *Engine) parseSpec(spec RecurrenceSpec) (start, end time.Time, times []timeOfDay, weekdays []bool, err error) {
    var reasons []string

    if spec.FilmID == 0 {
        reasons = append(reasons, "film_id is required")
    }
    if spec.HallID == 0 {
        reasons = append(reasons, "hall_id is required")
    }

    start, startErr := time.ParseInLocation("2006-01-02", spec.StartDate, e.loc)
    if startErr != nil {
        reasons = append(reasons, fmt.Sprintf("invalid start_date %q (expected YYYY-MM-DD)", spec.StartDate))
    }
    end, endErr := time.ParseInLocation("2006-01-02", spec.EndDate, e.loc)
    if endErr != nil {
        reasons = append(reasons, fmt.Sprintf("invalid end_date %q (expected YYYY-MM-DD)", spec.EndDate))
    }
    if startErr == nil && endErr == nil && end.Before(start) {
        reasons = append(reasons, "end_date must not be before start_date")
    }

    tokens := splitTimeTokens(spec.Times)
    if len(tokens) == 0 {
        reasons = append(reasons, "at least one time is required")
    }
    var invalid []string
    seen := map[timeOfDay]bool{}
    for _, tok := range tokens {
        parsed, perr := time.Parse("15:04", tok)
        if perr != nil {
            invalid = append(invalid, tok)
            continue
        }
        tod := timeOfDay{hour: parsed.Hour(), minute: parsed.Minute()}
        if !seen[tod] {
            seen[tod] = true
            times = append(times, tod)
        }
    }
    if len(invalid) > 0 {
        reasons = append(reasons, fmt.Sprintf("invalid times: %s (expected HH:MM)", strings.Join(invalid, ", ")))
    }

    for _, wd := range spec.Weekdays {
        if wd < 0 || wd > 6 {
            reasons = append(reasons, fmt.Sprintf("invalid weekday %d (0=Monday .. 6=Sunday)", wd))
            continue
        }
        if weekdays == nil {
            weekdays = make([]bool, 7)
        }
        weekdays[wd] = true
    }

    if len(reasons) > 0 {
        return time.Time{}, time.Time{}, nil, nil, &InvalidRecurrenceSpecError{Reasons: reasons}
    }
    return start, end, times, weekdays, nil
}

// splitTimeTokens flattens the raw time entries, splitting each on
// spaces, commas and semicolons.
func splitTimeTokens(raw []string) []string {
    var out []string
    for _, entry := range raw {
        parts := strings.FieldsFunc(entry, func(r rune) bool {
            return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n'
        })
        out = append(out, parts...)
    }
    return out
}

// isoWeekday maps Go's Sunday-based weekday to 0=Monday .. 6=Sunday.
func isoWeekday(t time.Time) int {
    return (int(t.Weekday()) + 6) % 7
}
