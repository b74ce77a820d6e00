package services

import (
	"errors"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

var ErrBadRating = errors.New("rating must be between 1 and 5")

type ReviewService struct {
	Reviews *repos.ReviewRepo
}

func NewReviewService(reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

func (s *ReviewService) Create(caller authz.Caller, farmerID string, orderID *string, rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", ErrBadRating
	}
	rv := &domain.Review{
		ID:       uuid.NewString(),
		FarmerID: farmerID,
		OrderID:  orderID,
		Rating:   rating,
		Comment:  comment,
	}
	if err := s.Reviews.Create(caller, rv); err != nil {
		return "", err
	}
	return rv.ID, nil
}

func (s *ReviewService) Update(caller authz.Caller, reviewID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrBadRating
	}
	ok, err := s.Reviews.Update(caller.ID, reviewID, rating, comment)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}

func (s *ReviewService) ForFarmer(farmerID string) ([]domain.Review, error) {
	return s.Reviews.ListByFarmer(farmerID)
}
