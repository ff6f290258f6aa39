package feedback

// Response-time buckets shown to the submitter.
const (
	EstimateCritical = "2-4 hours"
	EstimateHigh     = "1-2 business days"
	EstimateBug      = "2-3 business days"
	EstimateNegative = "1-2 business days"
	EstimateDefault  = "3-5 business days"
)

// EstimateResponseTime picks the bucket for a submission. Priority wins over type.
func EstimateResponseTime(d Details) string {
	switch {
	case d.Priority == PriorityCritical:
		return EstimateCritical
	case d.Priority == PriorityHigh:
		return EstimateHigh
	case d.Type == TypeBug:
		return EstimateBug
	case d.Type == TypeNegative:
		return EstimateNegative
	default:
		return EstimateDefault
	}
}
