package checkout

// Status tracks one checkout attempt through the payment sequence. COD jumps
// from Draft straight to Completed; the online path walks every state in
// order and a failure at any step is terminal for the attempt (the user
// restarts from Draft with a fresh order).
type Status string

const (
	StatusDraft                Status = "DRAFT"
	StatusAwaitingGatewayOrder Status = "AWAITING_GATEWAY_ORDER"
	StatusAwaitingUserPayment  Status = "AWAITING_USER_PAYMENT"
	StatusVerifyingSignature   Status = "VERIFYING_SIGNATURE"
	StatusFinalizing           Status = "FINALIZING"
	StatusCompleted            Status = "COMPLETED"
	StatusFailed               Status = "FAILED"
	StatusCancelled            Status = "CANCELLED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

func CanTransitionTo(from, to Status) bool {
	if to == StatusFailed || to == StatusCancelled {
		return !from.IsTerminal()
	}
	switch from {
	case StatusDraft:
		return to == StatusAwaitingGatewayOrder || to == StatusCompleted
	case StatusAwaitingGatewayOrder:
		return to == StatusAwaitingUserPayment
	case StatusAwaitingUserPayment:
		return to == StatusVerifyingSignature
	case StatusVerifyingSignature:
		return to == StatusFinalizing
	case StatusFinalizing:
		return to == StatusCompleted
	default:
		return false
	}
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
