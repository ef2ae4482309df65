package spending

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// Totals is an aggregate over a set of entries. Amounts are summed as
// recorded; no exchange-rate conversion is applied.
type Totals struct {
	Sum   float64
	Count int
}

// CategoryTotal is the aggregate for one category label within a period.
type CategoryTotal struct {
	Label string
	Sum   float64
	Count int
}

// TodayTotal returns the aggregate for the current day, using the service's
// timezone for the day boundary.
func (s *Service) TodayTotal(ctx context.Context) (Totals, error) {
	now := time.Now()
	return s.TotalsBetween(ctx, DayStart(now, s.loc), NextDayStart(now, s.loc))
}

// MonthTotal returns the aggregate for the current calendar month, using the
// service's timezone for the month boundary.
func (s *Service) MonthTotal(ctx context.Context) (Totals, error) {
	now := time.Now()
	return s.TotalsBetween(ctx, MonthStart(now, s.loc), NextMonthStart(now, s.loc))
}

// TotalsBetween returns the aggregate over entries with start <= occurred_at < end.
// Served from the working set while it holds the full history; once the set
// is capped the sum comes from the store instead.
func (s *Service) TotalsBetween(ctx context.Context, start, end time.Time) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("spending.TotalsBetween: %w", err)
	}

	if s.truncated() {
		sum, count, err := s.repo.TotalsBetween(ctx, id.ID, start, end)
		if err != nil {
			return Totals{}, fmt.Errorf("spending.TotalsBetween: %w", err)
		}
		return Totals{Sum: sum, Count: count}, nil
	}

	var t Totals
	for i := range s.entries {
		if inPeriod(s.entries[i].OccurredAt, start, end) {
			t.Sum += s.entries[i].Amount
			t.Count++
		}
	}
	return t, nil
}

// TotalsByCategory returns per-category aggregates over entries with
// start <= occurred_at < end, largest sum first. Entries without a category
// fall under the shared fallback label.
func (s *Service) TotalsByCategory(ctx context.Context, start, end time.Time) ([]CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.ensureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("spending.TotalsByCategory: %w", err)
	}

	if s.truncated() {
		rows, err := s.repo.TotalsByLabel(ctx, id.ID, start, end, domain.FallbackCategoryName)
		if err != nil {
			return nil, fmt.Errorf("spending.TotalsByCategory: %w", err)
		}
		out := make([]CategoryTotal, len(rows))
		for i, row := range rows {
			out[i] = CategoryTotal{Label: row.Label, Sum: row.Sum, Count: row.Count}
		}
		return out, nil
	}

	byLabel := make(map[string]*CategoryTotal)
	for i := range s.entries {
		e := &s.entries[i]
		if !inPeriod(e.OccurredAt, start, end) {
			continue
		}
		label := domain.FallbackCategoryName
		if e.CategoryLabel != nil && *e.CategoryLabel != "" {
			label = *e.CategoryLabel
		}
		agg, ok := byLabel[label]
		if !ok {
			agg = &CategoryTotal{Label: label}
			byLabel[label] = agg
		}
		agg.Sum += e.Amount
		agg.Count++
	}

	out := make([]CategoryTotal, 0, len(byLabel))
	for _, agg := range byLabel {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sum != out[j].Sum {
			return out[i].Sum > out[j].Sum
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func inPeriod(at, start, end time.Time) bool {
	return !at.Before(start) && at.Before(end)
}
