package tools

import (
	"fmt"
	"sort"
)

// Report aggregates invoice totals per customer.
type Report struct {
	totals map[string]int
}

func NewReport() *Report {
	return &Report{totals: make(map[string]int)}
}

func (r *Report) Add(customer string, cents int) {
	r.totals[customer] += cents
}

func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.totals))
	for customer, cents := range r.totals {
		lines = append(lines, fmt.Sprintf("%s: %d", customer, cents))
	}
	sort.Strings(lines)
	return lines
}
