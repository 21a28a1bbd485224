package models

// EntityReport aggregates the outcome of syncing one entity type across
// all of its batches. Counts are returned explicitly instead of being
// accumulated in shared state.
type EntityReport struct {
	Total         int
	Updated       int
	Created       int
	Excluded      int
	FailedBatches int

	// ExcludedKeys lists the business keys left out of the run, either
	// because their identity was ambiguous or their payload failed to map.
	ExcludedKeys []string

	// RowErrors holds CRM-reported row-level failures from otherwise
	// successful bulk calls.
	RowErrors []string
}

// Merge folds a single batch outcome into the report.
func (r *EntityReport) Merge(o BatchOutcome) {
	r.Updated += o.Updated
	r.Created += o.Created
	r.Excluded += o.Excluded
	r.ExcludedKeys = append(r.ExcludedKeys, o.ExcludedKeys...)
	r.RowErrors = append(r.RowErrors, o.RowErrors...)
	if o.Failed {
		r.FailedBatches++
	}
}

// BatchOutcome is the result of reconciling one batch.
type BatchOutcome struct {
	Size         int
	Updated      int
	Created      int
	Excluded     int
	ExcludedKeys []string
	RowErrors    []string

	// Failed is set when the batch could not be processed at all
	// (resolution or bulk call transport failure).
	Failed bool
}

// AssociationReport aggregates the association pass.
type AssociationReport struct {
	Pairs    int
	Created  int
	Existing int
	Skipped  int
	Failed   int
}

// RunReport is the end-to-end result of one sync run.
type RunReport struct {
	Contacts     EntityReport
	Applications EntityReport
	Associations AssociationReport
}
