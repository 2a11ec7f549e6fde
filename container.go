// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routecheck

import (
	"iter"
	"sort"
)

// ErrorContainer collects violations, deduplicated by their canonical string.
//
// The first violation added for a given string is the one kept; later ones
// only bump the count. The container never shrinks. The zero value is ready
// to use. An ErrorContainer is not safe for concurrent use.
type ErrorContainer struct {
	order  []string             // Canonical strings in first-seen order
	first  map[string]Violation // First violation seen per canonical string
	counts map[string]int       // Number of adds per canonical string
}

// NewErrorContainer returns an empty container.
func NewErrorContainer() *ErrorContainer {
	return &ErrorContainer{
		first:  make(map[string]Violation),
		counts: make(map[string]int),
	}
}

// Add records v.
func (c *ErrorContainer) Add(v Violation) {
	if c.first == nil {
		c.first = make(map[string]Violation)
		c.counts = make(map[string]int)
	}

	key := v.Error()
	if _, seen := c.first[key]; !seen {
		c.first[key] = v
		c.counts[key] = 0
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Len returns the number of distinct canonical strings.
func (c *ErrorContainer) Len() int {
	return len(c.order)
}

// Empty reports whether nothing was added.
func (c *ErrorContainer) Empty() bool {
	return len(c.order) == 0
}

// Count returns how many times a violation rendering to s was added.
func (c *ErrorContainer) Count(s string) int {
	return c.counts[s]
}

// Total returns the number of adds, duplicates included.
func (c *ErrorContainer) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}

	return total
}

// All yields the first-seen violation for each distinct canonical string,
// in first-seen order.
func (c *ErrorContainer) All() iter.Seq[Violation] {
	return func(yield func(Violation) bool) {
		for _, key := range c.order {
			if !yield(c.first[key]) {
				return
			}
		}
	}
}

// Violations returns the result of All as a slice.
func (c *ErrorContainer) Violations() []Violation {
	out := make([]Violation, 0, len(c.order))
	for v := range c.All() {
		out = append(out, v)
	}

	return out
}

// ByMostRepeated returns the distinct canonical strings ordered by descending
// count, then by violation kind name, then by first-seen order.
func (c *ErrorContainer) ByMostRepeated() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := c.counts[out[i]], c.counts[out[j]]
		if ci != cj {
			return ci > cj
		}

		return c.first[out[i]].Kind() < c.first[out[j]].Kind()
	})

	return out
}

// Merge replays the adds of each shard into c, shard by shard, each in its
// first-seen order. Merging shards built in parallel this way keeps the
// first-seen instance that a single sequential pass over the same shards
// would have kept.
func (c *ErrorContainer) Merge(shards ...*ErrorContainer) {
	for _, shard := range shards {
		if shard == nil || shard == c {
			continue
		}
		for _, key := range shard.order {
			v := shard.first[key]
			for range shard.counts[key] {
				c.Add(v)
			}
		}
	}
}
