package service

import (
	"context"

	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

type RequestService struct {
	requests domain.RequestRepository
}

func NewRequestService(requests domain.RequestRepository) *RequestService {
	return &RequestService{requests: requests}
}

type CreateRequestInput struct {
	Medicine     string `json:"medicine"`
	Quantity     int    `json:"quantity"`
	Urgency      string `json:"urgency"`
	Prescription string `json:"prescription"`
	Description  string `json:"description"`
	Location     string `json:"location"`
}

func (s *RequestService) Create(ctx context.Context, in CreateRequestInput, recipientEmail string) (*domain.Request, error) {
	if in.Urgency == "" {
		in.Urgency = domain.UrgencyMedium
	}
	switch {
	case in.Medicine == "":
		return nil, invalid("medicine is required")
	case in.Quantity < 1:
		return nil, invalid("quantity must be at least 1")
	case !domain.ValidUrgency(in.Urgency):
		return nil, invalid("invalid urgency")
	case in.Prescription == "":
		return nil, invalid("prescription image is required")
	case in.Location == "":
		return nil, invalid("location is required")
	case len(in.Description) > 500:
		return nil, invalid("description cannot be more than 500 characters")
	}

	r := &domain.Request{
		ID:             utils.NewID(),
		Medicine:       in.Medicine,
		RecipientEmail: recipientEmail,
		Status:         domain.RequestPending,
		Quantity:       in.Quantity,
		Urgency:        in.Urgency,
		Prescription:   in.Prescription,
		Description:    in.Description,
		Location:       in.Location,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RequestService) ListByRecipient(ctx context.Context, email string) ([]domain.Request, error) {
	return s.requests.ListByRecipient(ctx, email)
}
