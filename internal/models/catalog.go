package models

import "time"

type Category struct {
	ID          string
	Slug        string
	Name        string
	Description string
}

type Product struct {
	ID          string
	Slug        string
	Name        string
	Description string
	// Price is in the smallest currency unit.
	Price      int64
	Stock      int
	CategoryID string
	Image      string
	IsActive   bool
	CreatedAt  time.Time
}

// ReviewUser is the reviewer projection returned with a review.
type ReviewUser struct {
	Name string `json:"name"`
}

type Review struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	ProductID string     `json:"productId"`
	Rating    int        `json:"rating"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	User      ReviewUser `json:"user"`
}
