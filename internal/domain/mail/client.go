package mail

// Client defines an interface for sending outbound email. This decouples
// the follow-up workflow from the concrete delivery mechanism; failures are
// reported to the caller, which treats them as retryable.
type Client interface {
	Send(to, subject, body string) error
}
