package domain

import (
	"math"
	"sort"
	"strings"
)

// MemberCount is the number of evaluations received by one subject.
type MemberCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SubmitterAverage is the mean score given by one submitter.
type SubmitterAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Metrics summarises a set of evaluations for the dashboard.
type Metrics struct {
	Total              int                `json:"total"`
	AverageScore       float64            `json:"average_score"`
	HasData            bool               `json:"has_data"`
	ResponsesByMember  []MemberCount      `json:"responses_by_member"`
	AverageBySubmitter []SubmitterAverage `json:"average_by_submitter"`
}

// ComputeMetrics is a pure function over records. An empty set yields
// HasData=false and a zero average.
func ComputeMetrics(records []Evaluation) Metrics {
	m := Metrics{
		Total:              len(records),
		ResponsesByMember:  []MemberCount{},
		AverageBySubmitter: []SubmitterAverage{},
	}
	if len(records) == 0 {
		return m
	}

	var total float64
	byMember := make(map[string]int)
	type acc struct {
		sum float64
		n   int
	}
	bySubmitter := make(map[string]*acc)

	for _, r := range records {
		s := r.Score()
		total += s
		byMember[r.SubjectName]++

		a, ok := bySubmitter[r.SubmitterName]
		if !ok {
			a = &acc{}
			bySubmitter[r.SubmitterName] = a
		}
		a.sum += s
		a.n++
	}

	m.HasData = true
	m.AverageScore = roundOne(total / float64(len(records)))

	for name, n := range byMember {
		m.ResponsesByMember = append(m.ResponsesByMember, MemberCount{Name: name, Count: n})
	}
	sort.Slice(m.ResponsesByMember, func(i, j int) bool {
		return m.ResponsesByMember[i].Name < m.ResponsesByMember[j].Name
	})

	for name, a := range bySubmitter {
		m.AverageBySubmitter = append(m.AverageBySubmitter, SubmitterAverage{
			Name:    name,
			Average: roundOne(a.sum / float64(a.n)),
			Count:   a.n,
		})
	}
	sort.Slice(m.AverageBySubmitter, func(i, j int) bool {
		return m.AverageBySubmitter[i].Name < m.AverageBySubmitter[j].Name
	})

	return m
}

// FilterDetails keeps the records whose submitter or subject name contains
// query, ignoring case. An empty query returns records unchanged.
func FilterDetails(records []Evaluation, query string) []Evaluation {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make([]Evaluation, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.SubmitterName), q) ||
			strings.Contains(strings.ToLower(r.SubjectName), q) {
			out = append(out, r)
		}
	}
	return out
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
