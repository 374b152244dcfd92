package finance

import "time"

// Filter keeps the records matching st, preserving input order.
func Filter(list []Transaction, st State, now time.Time) []Transaction {
	bound, bounded := PeriodStart(st.Period, now)

	out := make([]Transaction, 0, len(list))
	for _, tx := range list {
		if !st.matchesKind(tx.Kind) {
			continue
		}
		if bounded {
			if !tx.HasDate() {
				continue
			}
			if calendarDay(tx.Date, now.Location()).Before(bound) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}
