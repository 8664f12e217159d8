package handler

import (
	"hackhub/internal/registration/models"
	dErrors "hackhub/pkg/domain-errors"
)

type registerTeamRequest struct {
	Name        string `json:"name"`
	TeamType    string `json:"team_type"`
	MemberCount int    `json:"member_count"`
	Track       string `json:"track"`
	ProposalRef string `json:"proposal_ref,omitempty"`
}

func (r registerTeamRequest) validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if !models.TeamType(r.TeamType).IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "team_type must be individual or team")
	}
	if !models.Track(r.Track).IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown track")
	}
	return nil
}

type submitProposalRequest struct {
	DocumentRef string `json:"document_ref"`
}

func (r submitProposalRequest) validate() error {
	if r.DocumentRef == "" {
		return dErrors.New(dErrors.CodeBadRequest, "document_ref is required")
	}
	return nil
}

type setApplicationStatusRequest struct {
	Status string `json:"status"`
}

func (r setApplicationStatusRequest) validate() error {
	if !models.ApplicationStatus(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown application status")
	}
	return nil
}

type submitPaymentRequest struct {
	ProofRef string `json:"proof_ref"`
}

func (r submitPaymentRequest) validate() error {
	if r.ProofRef == "" {
		return dErrors.New(dErrors.CodeBadRequest, "proof_ref is required")
	}
	return nil
}

type setPaymentStatusRequest struct {
	Status string `json:"status"`
}

func (r setPaymentStatusRequest) validate() error {
	if !models.PaymentStatus(r.Status).IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown payment status")
	}
	return nil
}
