package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/libraryhub/internal/entities"
)

// CreateBookInput is the request to add a title to the catalogue.
type CreateBookInput struct {
	Title           string `json:"title" validate:"required"`
	Author          string `json:"author" validate:"required"`
	ISBN            string `json:"isbn" validate:"required"`
	Category        string `json:"category" validate:"required"`
	TotalCopies     int    `json:"totalCopies" validate:"gte=1"`
	AvailableCopies *int   `json:"availableCopies" validate:"omitempty,gte=0"`
	PublishedYear   *int   `json:"publishedYear"`
}

// CreatePlanInput is the request to add a subscription plan.
type CreatePlanInput struct {
	Name          string   `json:"name" validate:"required"`
	Price         string   `json:"price" validate:"required,amount"`
	Duration      int      `json:"duration" validate:"gte=1"`
	Features      []string `json:"features"`
	StripePriceID *string  `json:"stripePriceId"`
}

// BookAvailability is the compact form used by the checkout picker.
type BookAvailability struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	AvailableCopies int    `json:"availableCopies"`
}

// PlanView exposes plan features as a list instead of raw JSON.
type PlanView struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         string   `json:"price"`
	Duration      int      `json:"duration"`
	Features      []string `json:"features"`
	StripePriceID *string  `json:"stripePriceId"`
}

// CatalogService manages books and subscription plans.
type CatalogService struct {
	db UnitOfWork
}

func NewCatalogService(db UnitOfWork) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]entities.Book, error) {
	books, err := s.db.Store().Books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *CatalogService) ListAvailability(ctx context.Context) ([]BookAvailability, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BookAvailability, 0, len(books))
	for _, b := range books {
		out = append(out, BookAvailability{ID: b.ID, Title: b.Title, AvailableCopies: b.AvailableCopies})
	}
	return out, nil
}

func (s *CatalogService) CreateBook(ctx context.Context, input CreateBookInput) (*entities.Book, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	available := input.TotalCopies
	if input.AvailableCopies != nil {
		available = *input.AvailableCopies
	}
	if available > input.TotalCopies {
		return nil, invalidField("availableCopies must not exceed totalCopies")
	}

	book := &entities.Book{
		Title:           strings.TrimSpace(input.Title),
		Author:          strings.TrimSpace(input.Author),
		ISBN:            strings.TrimSpace(input.ISBN),
		Category:        strings.TrimSpace(input.Category),
		TotalCopies:     input.TotalCopies,
		AvailableCopies: available,
		PublishedYear:   input.PublishedYear,
	}
	store := s.db.Store()
	if existing, err := store.Books.GetByISBN(ctx, book.ISBN); err == nil {
		return nil, fmt.Errorf("book with isbn %s: %w", existing.ISBN, ErrConflict)
	}
	if err := store.Books.Create(ctx, book); err != nil {
		return nil, conflict(err, "book")
	}
	return book, nil
}

func (s *CatalogService) ListPlans(ctx context.Context) ([]PlanView, error) {
	plans, err := s.db.Store().Plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	views := make([]PlanView, 0, len(plans))
	for i := range plans {
		views = append(views, newPlanView(&plans[i]))
	}
	return views, nil
}

func (s *CatalogService) CreatePlan(ctx context.Context, input CreatePlanInput) (*PlanView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	plan := &entities.SubscriptionPlan{
		Name:            strings.TrimSpace(input.Name),
		Price:           normalizeAmount(input.Price),
		Duration:        input.Duration,
		Features:        entities.NewFeatureList(input.Features),
		BillingPriceRef: optionalString(input.StripePriceID),
	}
	if err := s.db.Store().Plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	view := newPlanView(plan)
	return &view, nil
}

func newPlanView(plan *entities.SubscriptionPlan) PlanView {
	features := plan.FeatureList()
	if features == nil {
		features = []string{}
	}
	return PlanView{
		ID:            plan.ID,
		Name:          plan.Name,
		Price:         plan.Price,
		Duration:      plan.Duration,
		Features:      features,
		StripePriceID: plan.BillingPriceRef,
	}
}
