// Package diffing implements spec.md §4.9: comparing two message lowering
// results by source line and applying the result back onto a message slice.
package diffing

import (
	"sort"

	"github.com/dekarrin/gcodec/internal/message"
)

// LineMessage pairs a source line with the message that now lives there.
type LineMessage struct {
	Line    int
	Message message.Message
}

// Diff is the set of per-line changes between two message results.
type Diff struct {
	Added        []LineMessage
	Updated      []LineMessage
	RemovedLines []int
}

// LineRange reports the inclusive [from, to] line span touched by the diff,
// across all three categories, and whether the diff touched anything at
// all. Supplements the spec's added/updated/removed_lines triple with the
// convenience span the original implementation's message_diff.cpp reports.
func (d Diff) LineRange() (from, to int, ok bool) {
	first := true
	consider := func(line int) {
		if first || line < from {
			from = line
		}
		if first || line > to {
			to = line
		}
		first = false
	}

	for _, lm := range d.Added {
		consider(lm.Line)
	}
	for _, lm := range d.Updated {
		consider(lm.Line)
	}
	for _, line := range d.RemovedLines {
		consider(line)
	}

	return from, to, !first
}

func indexByLine(messages []message.Message) map[int]message.Message {
	indexed := make(map[int]message.Message, len(messages))
	for _, m := range messages {
		indexed[m.Source().Line] = m
	}
	return indexed
}

// DiffByLine compares before and after by source line: a line present only in
// before is removed, present only in after is added, present in both but
// unequal (per message.Equal) is updated.
func DiffByLine(before, after []message.Message) Diff {
	var d Diff

	beforeIdx := indexByLine(before)
	afterIdx := indexByLine(after)

	var beforeLines []int
	for line := range beforeIdx {
		beforeLines = append(beforeLines, line)
	}
	sort.Ints(beforeLines)

	for _, line := range beforeLines {
		found, ok := afterIdx[line]
		if !ok {
			d.RemovedLines = append(d.RemovedLines, line)
			continue
		}
		if !message.Equal(beforeIdx[line], found) {
			d.Updated = append(d.Updated, LineMessage{Line: line, Message: found})
		}
	}

	var afterLines []int
	for line := range afterIdx {
		afterLines = append(afterLines, line)
	}
	sort.Ints(afterLines)

	for _, line := range afterLines {
		if _, ok := beforeIdx[line]; !ok {
			d.Added = append(d.Added, LineMessage{Line: line, Message: afterIdx[line]})
		}
	}

	return d
}

// Apply returns a new message slice in ascending-line order after applying
// diff's removals, updates, and additions onto current.
func Apply(current []message.Message, diff Diff) []message.Message {
	indexed := indexByLine(current)

	for _, line := range diff.RemovedLines {
		delete(indexed, line)
	}
	for _, lm := range diff.Updated {
		indexed[lm.Line] = lm.Message
	}
	for _, lm := range diff.Added {
		indexed[lm.Line] = lm.Message
	}

	var lines []int
	for line := range indexed {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	applied := make([]message.Message, 0, len(indexed))
	for _, line := range lines {
		applied = append(applied, indexed[line])
	}
	return applied
}
