package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/app-aegis/aegis-admin/pkg/restapi"
)

// bulkPageSize bounds the collections the overview pulls in one request.
const bulkPageSize = 1000

const trailingMonths = 6

// RangePreset selects the overview's reporting window.
type RangePreset string

// Supported presets.
const (
	RangeThisMonth   RangePreset = "this_month"
	RangeThisQuarter RangePreset = "this_quarter"
	RangeThisYear    RangePreset = "this_year"
	RangeLastMonth   RangePreset = "last_month"
	RangeLastQuarter RangePreset = "last_quarter"
	RangeLastYear    RangePreset = "last_year"
)

// RangePresets lists every preset in display order.
func RangePresets() []RangePreset {
	return []RangePreset{
		RangeLastYear,
		RangeLastQuarter,
		RangeLastMonth,
		RangeThisMonth,
		RangeThisQuarter,
		RangeThisYear,
	}
}

// RangeBounds computes the inclusive start/end of a preset relative to now,
// using calendar month and quarter arithmetic. End bounds run through
// 23:59:59.999 of the last day. Unknown presets fall back to this month.
func RangeBounds(preset RangePreset, now time.Time) (time.Time, time.Time) {
	year, month := now.Year(), now.Month()
	loc := now.Location()
	switch preset {
	case RangeThisQuarter:
		q := (int(month) - 1) / 3
		return monthSpan(year, time.Month(q*3+1), 3, loc)
	case RangeThisYear:
		return monthSpan(year, time.January, 12, loc)
	case RangeLastMonth:
		last := time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
		return monthSpan(last.Year(), last.Month(), 1, loc)
	case RangeLastQuarter:
		q := (int(month)-1)/3 - 1
		if q < 0 {
			return monthSpan(year-1, time.October, 3, loc)
		}
		return monthSpan(year, time.Month(q*3+1), 3, loc)
	case RangeLastYear:
		return monthSpan(year-1, time.January, 12, loc)
	default:
		return monthSpan(year, month, 1, loc)
	}
}

// monthSpan returns [first day of (year, month), last millisecond of the
// span months-wide window].
func monthSpan(year int, month time.Month, months int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month+time.Month(months), 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// RatingBucket is one bar of the star distribution, 5 stars first.
type RatingBucket struct {
	Star  int
	Count int
}

// MonthPoint is one bucket of a trailing-month series, keyed "YYYY-M".
type MonthPoint struct {
	Month string
	Count int
}

// OverviewReport holds the computed aggregates for the selected range.
type OverviewReport struct {
	Preset         RangePreset
	RangeStart     time.Time
	RangeEnd       time.Time
	TotalUsers     int
	SignupsInRange int
	FeedbackCount  int
	AverageRating  float64
	ActiveUsers    int
	Distribution   []RatingBucket
	UserGrowth     []MonthPoint
	ActiveByMonth  []MonthPoint
}

// BuildOverviewReport computes every overview aggregate from bulk data.
// The two trailing series bucket by calendar month over the last six months
// and additionally clip each row to the selected range.
func BuildOverviewReport(preset RangePreset, now time.Time, users []Parent, feedbacks []Feedback, logs []Log) OverviewReport {
	start, end := RangeBounds(preset, now)
	inRange := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	report := OverviewReport{
		Preset:     preset,
		RangeStart: start,
		RangeEnd:   end,
		TotalUsers: len(users),
	}

	ratingSum := 0
	counts := map[int]int{}
	for _, fb := range feedbacks {
		if !inRange(fb.Timestamp) {
			continue
		}
		report.FeedbackCount++
		ratingSum += fb.Rating
		counts[fb.Rating]++
	}
	if report.FeedbackCount > 0 {
		report.AverageRating = float64(ratingSum) / float64(report.FeedbackCount)
	}
	for star := 5; star >= 1; star-- {
		report.Distribution = append(report.Distribution, RatingBucket{Star: star, Count: counts[star]})
	}

	active := map[string]bool{}
	for _, log := range logs {
		if inRange(log.Timestamp) {
			active[log.ParentID] = true
		}
	}
	report.ActiveUsers = len(active)

	months := trailingMonthKeys(now)
	growth := map[string]int{}
	for _, u := range users {
		if inRange(u.CreatedAt) {
			report.SignupsInRange++
			growth[monthKey(u.CreatedAt)]++
		}
	}
	activeByMonth := map[string]map[string]bool{}
	for _, log := range logs {
		if !inRange(log.Timestamp) {
			continue
		}
		key := monthKey(log.Timestamp)
		if activeByMonth[key] == nil {
			activeByMonth[key] = map[string]bool{}
		}
		activeByMonth[key][log.ParentID] = true
	}
	for _, key := range months {
		report.UserGrowth = append(report.UserGrowth, MonthPoint{Month: key, Count: growth[key]})
		report.ActiveByMonth = append(report.ActiveByMonth, MonthPoint{Month: key, Count: len(activeByMonth[key])})
	}
	return report
}

// monthKey formats a timestamp's calendar month as YYYY-M, month unpadded.
func monthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

func trailingMonthKeys(now time.Time) []string {
	keys := make([]string, 0, trailingMonths)
	for i := trailingMonths - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		keys = append(keys, monthKey(m))
	}
	return keys
}

// OverviewController fetches the bulk collections and keeps the latest
// report for the selected preset.
type OverviewController struct {
	client    restapi.Lister
	telemetry Telemetry
	clock     func() time.Time

	mu      sync.Mutex
	preset  RangePreset
	report  OverviewReport
	loading bool
	viewErr string
}

// NewOverviewController builds the overview with the this-month preset.
func NewOverviewController(client restapi.Lister, telemetry Telemetry) *OverviewController {
	return &OverviewController{
		client:    client,
		telemetry: normalizeTelemetry(telemetry),
		clock:     time.Now,
		preset:    RangeThisMonth,
	}
}

// SetPreset selects a reporting window and refreshes.
func (o *OverviewController) SetPreset(ctx context.Context, preset RangePreset) error {
	o.mu.Lock()
	o.preset = preset
	o.mu.Unlock()
	return o.Refresh(ctx)
}

// Refresh pulls users, feedbacks and login-type logs concurrently, then
// recomputes the report. Any fetch failure surfaces as a single view error.
func (o *OverviewController) Refresh(ctx context.Context) error {
	o.mu.Lock()
	o.loading = true
	o.viewErr = ""
	preset := o.preset
	o.mu.Unlock()

	var (
		wg        sync.WaitGroup
		users     []Parent
		feedbacks []Feedback
		logs      []Log
		errMu     sync.Mutex
		firstErr  error
	)
	record := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	bulk := restapi.Query{Page: 1, PageSize: bulkPageSize}

	wg.Add(3)
	go func() {
		defer wg.Done()
		res, err := o.client.List(ctx, CollectionParents, bulk)
		if err != nil {
			record(err)
			return
		}
		users = restapi.DecodeItems[Parent](res)
	}()
	go func() {
		defer wg.Done()
		res, err := o.client.List(ctx, CollectionFeedbacks, bulk)
		if err != nil {
			record(err)
			return
		}
		feedbacks = restapi.DecodeItems[Feedback](res)
	}()
	go func() {
		defer wg.Done()
		q := bulk
		q.Filters = map[string]string{"eventType": string(EventLogin)}
		res, err := o.client.List(ctx, CollectionLogs, q)
		if err != nil {
			record(err)
			return
		}
		logs = restapi.DecodeItems[Log](res)
	}()
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
	if firstErr != nil {
		o.viewErr = "failed to load overview data"
		return firstErr
	}
	o.report = BuildOverviewReport(preset, o.clock(), users, feedbacks, logs)
	o.telemetry.Record(ctx, "console.overview.refresh", map[string]any{
		"preset": string(preset),
		"users":  len(users),
	})
	return nil
}

// OverviewSnapshot is the render view of the overview tab.
type OverviewSnapshot struct {
	Preset  RangePreset
	Report  OverviewReport
	Loading bool
	Error   string
}

// Snapshot captures the current overview state.
func (o *OverviewController) Snapshot() OverviewSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return OverviewSnapshot{
		Preset:  o.preset,
		Report:  o.report,
		Loading: o.loading,
		Error:   o.viewErr,
	}
}
