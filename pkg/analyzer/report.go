package analyzer

// Summary counts violations per kind so callers can make decisions (an exit
// code, a CI annotation) without re-scanning the sequence.
type Summary struct {
	LayerDirection    int `json:"layer_direction"`
	ForbiddenExternal int `json:"forbidden_external"`
	Cycle             int `json:"cycle"`
}

// Report is the inert result of a verification run: the ordered violation
// sequence, a conformance flag, and per-kind counts. Re-running the analyzer
// on unchanged inputs produces a byte-identical report.
type Report struct {
	Conforms   bool        `json:"conforms"`
	Summary    Summary     `json:"summary"`
	Violations []Violation `json:"violations"`
}

func newReport(violations []Violation) *Report {
	r := &Report{
		Conforms:   len(violations) == 0,
		Violations: violations,
	}
	for _, v := range violations {
		switch v.Kind {
		case KindLayerDirection:
			r.Summary.LayerDirection++
		case KindForbiddenExternal:
			r.Summary.ForbiddenExternal++
		case KindCycle:
			r.Summary.Cycle++
		}
	}
	return r
}

// CountFor returns the number of violations of the given kind
func (r *Report) CountFor(kind Kind) int {
	switch kind {
	case KindLayerDirection:
		return r.Summary.LayerDirection
	case KindForbiddenExternal:
		return r.Summary.ForbiddenExternal
	case KindCycle:
		return r.Summary.Cycle
	default:
		return 0
	}
}
