package core

// Summarize tallies a batch's outcomes. It is a pure function of the
// outcome list: running it twice over the same outcomes yields identical
// summaries. Validation failures are counted by their tagged category,
// never by matching message text.
func Summarize(outcomes []RowOutcome, baseCompanyID int64) BatchSummary {
	s := BatchSummary{
		Total:             len(outcomes),
		BaseAccountIDUsed: baseCompanyID,
	}

	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeSubmitted:
			s.OK++
		case OutcomeSkippedDuplicate:
			s.SkippedDuplicates++
		case OutcomeRejected:
			if o.Category == CategoryValidation {
				s.ValidationErrors++
			}
		}
	}

	s.Failed = s.Total - s.OK - s.SkippedDuplicates
	return s
}
