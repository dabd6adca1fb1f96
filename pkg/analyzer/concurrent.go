package analyzer

import (
	"sync"

	"github.com/dd0wney/cluso-archcheck/pkg/depmodel"
	"github.com/dd0wney/cluso-archcheck/pkg/parallel"
	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

// VerifyConcurrent runs the three passes on separate workers. The passes
// share no state and the merged findings go through the same fixed sort as
// Verify, so the report is identical to the sequential one. This is a
// throughput option for large graphs, not a semantic variant.
func VerifyConcurrent(reg *rules.Registry, m *depmodel.Model) *Report {
	passes := []func() []Violation{
		func() []Violation { return passLayerDirection(reg, m) },
		func() []Violation { return passForbiddenExternals(reg, m) },
		func() []Violation { return passCycles(m) },
	}

	results := make([][]Violation, len(passes))
	pool := parallel.NewWorkerPool(len(passes))

	var wg sync.WaitGroup
	for i, pass := range passes {
		i, pass := i, pass
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			results[i] = pass()
		})
	}
	wg.Wait()
	pool.Close()

	var violations []Violation
	for _, partial := range results {
		violations = append(violations, partial...)
	}
	sortViolations(violations)
	return newReport(violations)
}
