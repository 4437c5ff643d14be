package reconcile

import "context"

type IReconciler interface {
	// Run performs one bounded reconciliation invocation over at most limit
	// pending sell transactions. It returns how many records were actually
	// checked against a provider and how many were newly confirmed. It never
	// fails as a whole; per-record problems are logged and skipped.
	Run(ctx context.Context, limit int) (checked int, confirmed int)
}
