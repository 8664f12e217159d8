package models

// ApplicationStatus is the review state of a team's application.
//
// Lifecycle: pending_proposal → pending → under_review → {shortlisted|rejected}.
// Admins may reverse a decision after the fact, so shortlisted and rejected
// can move back to earlier review states or swap into each other.
// pending_proposal is only ever entered at registration.
type ApplicationStatus string

const (
	ApplicationPendingProposal ApplicationStatus = "pending_proposal"
	ApplicationPending         ApplicationStatus = "pending"
	ApplicationUnderReview     ApplicationStatus = "under_review"
	ApplicationShortlisted     ApplicationStatus = "shortlisted"
	ApplicationRejected        ApplicationStatus = "rejected"
)

// applicationTransitions is the single source of truth for legal status
// changes. Anything absent here is an invalid transition.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPendingProposal: {ApplicationPending},
	ApplicationPending:         {ApplicationUnderReview},
	ApplicationUnderReview:     {ApplicationShortlisted, ApplicationRejected},
	ApplicationShortlisted:     {ApplicationPending, ApplicationUnderReview, ApplicationRejected},
	ApplicationRejected:        {ApplicationPending, ApplicationUnderReview, ApplicationShortlisted},
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows moving to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the state of a shortlisted team's participation payment.
// It stays PaymentNone unless the team is shortlisted.
type PaymentStatus string

const (
	PaymentNone     PaymentStatus = "none"
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// rejected → pending is legal: participants may resubmit proof.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentNone:     {PaymentPending},
	PaymentPending:  {PaymentApproved, PaymentRejected},
	PaymentApproved: {},
	PaymentRejected: {PaymentPending},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionTo reports whether the payment sub-machine allows moving to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
