package constants

const (
	// EngagementSummaryQuery folds the per-request view/shortlist logs into
	// one row per request. Counters come from the logs, not the cached
	// columns, so the report stays honest even if the counters drift.
	EngagementSummaryQuery = `
	SELECT sr.request_id,
	       sr.service_type,
	       sr.status,
	       COUNT(DISTINCT rv.id) AS view_count,
	       COUNT(DISTINCT sl.id) AS shortlist_count
	FROM service_requests sr
	LEFT JOIN request_views rv ON rv.request_id = sr.id
	LEFT JOIN shortlists sl ON sl.request_id = sr.id
	GROUP BY sr.id, sr.request_id, sr.service_type, sr.status
	ORDER BY sr.request_id
	`

	// ClaimTotalsQuery sums submitted claim items per request, alongside
	// how many of the request's claims have both approvals in place.
	ClaimTotalsQuery = `
	SELECT sr.request_id,
	       COUNT(DISTINCT fc.id) AS claim_count,
	       COALESCE(SUM(ci.total_amount), 0) AS total_amount,
	       COUNT(DISTINCT CASE WHEN fc.approved_by_pin AND fc.approved_by_csr THEN fc.id END) AS settled_count
	FROM service_requests sr
	JOIN financial_claims fc ON fc.request_id = sr.id
	LEFT JOIN claim_items ci ON ci.claim_id = fc.id
	GROUP BY sr.id, sr.request_id
	ORDER BY sr.request_id
	`
)
