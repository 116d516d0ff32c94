package api

import "github.com/stocktrail/stocktrail/internal/domain"

// Handler-facing repository interfaces. They reuse the canonical domain
// interfaces since the method sets are identical, avoiding duplication.
type (
	// LedgerRepository is the item mutation and read surface.
	LedgerRepository = domain.LedgerService
	// AuditRepository is the audit log query and maintenance surface.
	AuditRepository = domain.AuditLogService
	// SummaryRepository is the windowed aggregation surface.
	SummaryRepository = domain.SummaryService
)
