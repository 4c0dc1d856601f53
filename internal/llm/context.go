package llm

import "context"

// UnknownPurpose labels events from calls that were not tagged.
const UnknownPurpose = "unknown"

type purposeKey struct{}

// WithPurpose tags ctx with the operation a request serves, for example
// "career-plan". The tag ends up in the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return UnknownPurpose
}
