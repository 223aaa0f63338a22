package campaign

import (
	"sort"
	"strings"

	"github.com/aurule/npc/internal/character"
)

// Tags that hide parts of a character from reports.
const (
	HideTag      = "hide"
	HideGroupTag = "hidegroup"
	HideRanksTag = "hideranks"
)

// ValueCount is how many times one value appeared.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TagReport holds the value frequencies of one tag.
type TagReport struct {
	Tag    string       `json:"tag"`
	Values []ValueCount `json:"values"`
}

// Total is the number of values counted.
func (r TagReport) Total() int {
	n := 0
	for _, v := range r.Values {
		n += v.Count
	}
	return n
}

// Report counts the values of each named tag across chars. A name of the
// form "parent/child" counts the child subtags of every parent tag, such as
// "group/rank". Values are sorted by count, highest first, then by value.
//
// Characters can hide values from reports: @hide removes a whole tag,
// @hidegroup removes one group with its ranks, and @hideranks removes the
// ranks of one group. Empty values are not counted.
func Report(chars []*character.Character, tags []string) []TagReport {
	reports := make([]TagReport, 0, len(tags))
	for _, tag := range tags {
		counts := make(map[string]int)
		for _, c := range chars {
			for _, v := range reportValues(c, tag) {
				counts[v]++
			}
		}
		reports = append(reports, TagReport{Tag: tag, Values: sortCounts(counts)})
	}
	return reports
}

func reportValues(c *character.Character, tag string) []string {
	parent, child, isSub := strings.Cut(tag, "/")
	hidden := c.Values(HideTag)
	if contains(hidden, parent) || (isSub && contains(hidden, child)) {
		return nil
	}

	hiddenGroups := c.Values(HideGroupTag)
	hiddenRanks := c.Values(HideRanksTag)

	var values []string
	for _, t := range c.All(parent) {
		if parent == "group" && contains(hiddenGroups, t.Value) {
			continue
		}
		if !isSub {
			values = appendValue(values, t.Value)
			continue
		}
		if parent == "group" && child == "rank" && contains(hiddenRanks, t.Value) {
			continue
		}
		for _, v := range t.SubValues(child) {
			values = appendValue(values, v)
		}
	}
	return values
}

func appendValue(values []string, v string) []string {
	if v == "" {
		return values
	}
	return append(values, v)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sortCounts(counts map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
