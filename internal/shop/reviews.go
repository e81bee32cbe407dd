package shop

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/naazbookdepot/shopauth/internal/models"
)

const (
	maxReviewTitle   = 100
	maxReviewComment = 500
)

// ReviewInput is a review as submitted by a customer.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Validate trims the text fields in place and checks their bounds.
func (in *ReviewInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Comment = strings.TrimSpace(in.Comment)

	switch {
	case in.Rating < 1 || in.Rating > 5:
		return ErrInvalidRating
	case in.Title == "" || utf8.RuneCountInString(in.Title) > maxReviewTitle:
		return ErrInvalidTitle
	case in.Comment == "" || utf8.RuneCountInString(in.Comment) > maxReviewComment:
		return ErrInvalidComment
	}
	return nil
}

func (s *Service) product(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).GetBySlug(ctx, slug)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *Service) ListReviews(ctx context.Context, slug string) ([]models.Review, error) {
	p, err := s.product(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Reviews(s.db).ListByProduct(ctx, p.ID)
}

func (s *Service) CreateReview(ctx context.Context, userID, slug string, in ReviewInput) (*models.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.product(ctx, slug)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Reviews(s.db)
	exists, err := repo.Exists(ctx, userID, p.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review, err := repo.Create(ctx, &models.Review{
		UserID:    userID,
		ProductID: p.ID,
		Rating:    in.Rating,
		Title:     in.Title,
		Comment:   in.Comment,
	})
	if errors.Is(err, models.ErrConflict) {
		return nil, ErrAlreadyReviewed
	}
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "review created", "product_id", p.ID, "user_id", userID, "rating", in.Rating)
	return review, nil
}
