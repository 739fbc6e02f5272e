package batch

// MaxReportedErrors caps the error samples carried in a Report.
const MaxReportedErrors = 10

// Report summarizes a batch operation. Errors holds at most
// MaxReportedErrors samples; Failed is the true failure count.
type Report struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// Summarize folds per-item results into a Report.
func Summarize(results []Result) Report {
	rep := Report{Total: len(results)}
	for _, r := range results {
		if r.Status() == StatusOK {
			rep.Succeeded++
			continue
		}
		rep.Failed++
		if len(rep.Errors) < MaxReportedErrors && r.Err() != nil {
			rep.Errors = append(rep.Errors, r.ID()+": "+r.Err().Error())
		}
	}
	return rep
}
