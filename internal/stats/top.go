// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// TopMissedWords returns the n most missed words, ties broken by timeouts then spelling.
func TopMissedWords(aggs []model.WordAggregate, n int) []model.WordAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.WordAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Misses != items[j].Misses {
			return items[i].Misses > items[j].Misses
		}
		if items[i].TimedOut != items[j].TimedOut {
			return items[i].TimedOut > items[j].TimedOut
		}
		return items[i].English < items[j].English
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
