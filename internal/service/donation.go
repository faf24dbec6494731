package service

import (
	"context"
	"time"

	"carexchange/internal/domain"
	"carexchange/pkg/utils"
)

type DonationService struct {
	donations domain.DonationRepository
}

func NewDonationService(donations domain.DonationRepository) *DonationService {
	return &DonationService{donations: donations}
}

type CreateDonationInput struct {
	Medicine    string    `json:"medicine"`
	Quantity    int       `json:"quantity"`
	ExpiryDate  time.Time `json:"expiryDate"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Location    string    `json:"location"`
}

func (s *DonationService) Create(ctx context.Context, in CreateDonationInput, donorEmail string) (*domain.Donation, error) {
	switch {
	case in.Medicine == "":
		return nil, invalid("medicine is required")
	case in.Quantity < 1:
		return nil, invalid("quantity must be at least 1")
	case in.ExpiryDate.IsZero():
		return nil, invalid("expiryDate is required")
	case !domain.ValidCondition(in.Condition):
		return nil, invalid("condition is required")
	case in.Location == "":
		return nil, invalid("location is required")
	case len(in.Description) > 500:
		return nil, invalid("description cannot be more than 500 characters")
	}

	d := &domain.Donation{
		ID:          utils.NewID(),
		Medicine:    in.Medicine,
		DonorEmail:  donorEmail,
		Status:      domain.DonationActive,
		Quantity:    in.Quantity,
		ExpiryDate:  in.ExpiryDate,
		Condition:   in.Condition,
		Description: in.Description,
		Images:      in.Images,
		Location:    in.Location,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DonationService) ListActive(ctx context.Context) ([]domain.Donation, error) {
	return s.donations.ListActive(ctx)
}

func (s *DonationService) ListByDonor(ctx context.Context, email string) ([]domain.Donation, error) {
	return s.donations.ListByDonor(ctx, email)
}
