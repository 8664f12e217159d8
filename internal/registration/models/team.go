package models

import (
	"time"

	id "hackhub/pkg/domain"
	dErrors "hackhub/pkg/domain-errors"
)

// TeamType distinguishes solo applicants from multi-member teams.
type TeamType string

const (
	TeamTypeIndividual TeamType = "individual"
	TeamTypeTeam       TeamType = "team"
)

func (t TeamType) IsValid() bool {
	return t == TeamTypeIndividual || t == TeamTypeTeam
}

// Track is the competition track a team applies under.
type Track string

const (
	TrackWeb        Track = "web"
	TrackMobile     Track = "mobile"
	TrackAI         Track = "ai"
	TrackBlockchain Track = "blockchain"
	TrackIoT        Track = "iot"
	TrackOpen       Track = "open"
)

func (t Track) IsValid() bool {
	switch t {
	case TrackWeb, TrackMobile, TrackAI, TrackBlockchain, TrackIoT, TrackOpen:
		return true
	}
	return false
}

const maxMemberCount = 4

// Team is the aggregate root for one application record.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - MemberCount is 1..4; exactly 1 when TeamType is individual
//   - ApplicationStatus changes only along the transition table
//   - PaymentStatus is PaymentNone unless ApplicationStatus is shortlisted
//   - HasProposal is true from the first accepted proposal onward
//   - CreatedAt is immutable after construction
//
// All mutation goes through Can*/Apply* pairs so the store's Execute
// callback can validate and mutate under one lock.
type Team struct {
	ID                id.TeamID         `json:"id"`
	Name              string            `json:"name"`
	Type              TeamType          `json:"team_type"`
	MemberCount       int               `json:"member_count"`
	Track             Track             `json:"track"`
	ApplicationStatus ApplicationStatus `json:"application_status"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	HasProposal       bool              `json:"has_proposal"`
	ProposalRef       string            `json:"proposal_ref,omitempty"`
	PaymentProofRef   string            `json:"payment_proof_ref,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func NewTeam(teamID id.TeamID, name string, teamType TeamType, memberCount int, track Track, now time.Time) (*Team, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "team name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "team name must be 128 characters or less")
	}
	if !teamType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid team type")
	}
	if memberCount < 1 || memberCount > maxMemberCount {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "member count must be between 1 and 4")
	}
	if teamType == TeamTypeIndividual && memberCount != 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "individual applicants have exactly one member")
	}
	if !track.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid track")
	}
	return &Team{
		ID:                teamID,
		Name:              name,
		Type:              teamType,
		MemberCount:       memberCount,
		Track:             track,
		ApplicationStatus: ApplicationPendingProposal,
		PaymentStatus:     PaymentNone,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (t *Team) IsShortlisted() bool {
	return t.ApplicationStatus == ApplicationShortlisted
}

// ApplyProposal records a proposal document. From pending_proposal it
// advances the application to pending; at any later stage it only replaces
// the stored reference (a revised upload), which is why there is no CanX
// counterpart — the operation is always legal on a live team.
// Returns true when the application status advanced.
func (t *Team) ApplyProposal(documentRef string, now time.Time) bool {
	advanced := t.ApplicationStatus == ApplicationPendingProposal
	t.HasProposal = true
	t.ProposalRef = documentRef
	if advanced {
		t.ApplicationStatus = ApplicationPending
	}
	t.UpdatedAt = now
	return advanced
}

// CanSetApplicationStatus checks the transition table.
// Use with ApplySetApplicationStatus in Execute callbacks.
func (t *Team) CanSetApplicationStatus(next ApplicationStatus) error {
	if !next.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown application status")
	}
	if !t.ApplicationStatus.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"application cannot move from "+string(t.ApplicationStatus)+" to "+string(next))
	}
	return nil
}

// ApplySetApplicationStatus performs the transition. Leaving shortlisted
// voids any payment state: payment is meaningless outside shortlisted.
func (t *Team) ApplySetApplicationStatus(next ApplicationStatus, now time.Time) {
	if t.ApplicationStatus == ApplicationShortlisted && next != ApplicationShortlisted {
		t.PaymentStatus = PaymentNone
		t.PaymentProofRef = ""
	}
	t.ApplicationStatus = next
	t.UpdatedAt = now
}

// CanSubmitPayment checks that the team is eligible to submit payment proof.
func (t *Team) CanSubmitPayment() error {
	if !t.IsShortlisted() {
		return dErrors.New(dErrors.CodePaymentNotApplicable, "payment requires a shortlisted application")
	}
	if !t.PaymentStatus.CanTransitionTo(PaymentPending) && t.PaymentStatus != PaymentPending {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"payment cannot move from "+string(t.PaymentStatus)+" to pending")
	}
	return nil
}

// ApplySubmitPayment moves payment to pending, superseding any earlier proof.
// A resubmission while already pending just swaps the proof reference.
func (t *Team) ApplySubmitPayment(proofRef string, now time.Time) {
	t.PaymentStatus = PaymentPending
	t.PaymentProofRef = proofRef
	t.UpdatedAt = now
}

// CanSetPaymentStatus checks the payment sub-machine. Only meaningful while
// shortlisted; everything else is payment_not_applicable.
func (t *Team) CanSetPaymentStatus(next PaymentStatus) error {
	if !t.IsShortlisted() {
		return dErrors.New(dErrors.CodePaymentNotApplicable, "payment requires a shortlisted application")
	}
	if !next.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown payment status")
	}
	if !t.PaymentStatus.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"payment cannot move from "+string(t.PaymentStatus)+" to "+string(next))
	}
	return nil
}

// ApplySetPaymentStatus performs the payment transition.
func (t *Team) ApplySetPaymentStatus(next PaymentStatus, now time.Time) {
	t.PaymentStatus = next
	t.UpdatedAt = now
}
