package llm

import "context"

// Purpose labels stored on LLM request events.
const (
	PurposeMentor  = "mentor"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose labels the calls made with ctx, so request events and retry
// logs name the feature that made them.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
