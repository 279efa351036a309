// Package feedback, as part of the feedback module.
// This file, `service.go`, contains the business logic for feedback-related
// operations: the CRUD repository over the feedback table, with the ownership
// guard applied at the start of every operation that acts on someone's data.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/user/feedbackboard-go/apperror"
	"github.com/user/feedbackboard-go/auth"
	"github.com/user/feedbackboard-go/db"
)

// Service defines the interface for feedback operations.
// Handlers depend on this interface rather than the concrete implementation,
// which keeps them testable with a fake.
//
// Every operation that creates or mutates a record takes the acting username
// and passes it through the authorization guard before touching the store.
type Service interface {
	Create(ctx context.Context, actor, owner string, form Form) (*Feedback, error)
	Get(ctx context.Context, id int32) (*Feedback, error)
	Update(ctx context.Context, actor string, id int32, form Form) (*Feedback, error)
	Delete(ctx context.Context, actor string, id int32) error
	ListByOwner(ctx context.Context, username string) ([]Feedback, error)
}

// service is the pgx-backed implementation of Service.
type service struct {
	db db.Querier
}

// NewService creates the feedback Service over the given database connection.
func NewService(querier db.Querier) Service {
	return &service{db: querier}
}

// Create persists a new feedback record owned by `owner`. The guard rejects a
// caller creating feedback under someone else's name before anything is
// written. Title and content are required non-empty; the forms layer already
// checks this for browser input, but the service re-checks because it is the
// last gate before the store.
func (s *service) Create(ctx context.Context, actor, owner string, form Form) (*Feedback, error) {
	if err := auth.RequireOwnership(actor, owner); err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.Content) == "" {
		return nil, apperror.NewValidationError("title and content are required", nil)
	}

	fb := &Feedback{
		Title:    form.Title,
		Content:  form.Content,
		Username: owner,
	}
	query := `INSERT INTO feedback (title, content, username) VALUES ($1, $2, $3) RETURNING id`
	if err := s.db.QueryRow(ctx, query, fb.Title, fb.Content, fb.Username).Scan(&fb.ID); err != nil {
		return nil, apperror.NewDatabaseError("failed to create feedback", err)
	}
	return fb, nil
}

// Get retrieves one feedback record by id, returning NotFound when it does not
// exist. Reading is not guarded here; callers that need owner-only visibility
// apply the guard against the returned record's owner.
func (s *service) Get(ctx context.Context, id int32) (*Feedback, error) {
	var fb Feedback
	query := `SELECT id, title, content, username FROM feedback WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("feedback %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get feedback", err)
	}
	return &fb, nil
}

// Update replaces the title and content of an existing record. The record is
// loaded first (NotFound when missing), then the guard compares the acting
// user against the stored owner; id and owner never change.
func (s *service) Update(ctx context.Context, actor string, id int32, form Form) (*Feedback, error) {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnership(actor, fb.Username); err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.Content) == "" {
		return nil, apperror.NewValidationError("title and content are required", nil)
	}

	query := `UPDATE feedback SET title = $1, content = $2 WHERE id = $3`
	if _, err := s.db.Exec(ctx, query, form.Title, form.Content, id); err != nil {
		return nil, apperror.NewDatabaseError("failed to update feedback", err)
	}

	fb.Title = form.Title
	fb.Content = form.Content
	return fb, nil
}

// Delete permanently removes a record after the same load-then-guard sequence
// as Update.
func (s *service) Delete(ctx context.Context, actor string, id int32) error {
	fb, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnership(actor, fb.Username); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id); err != nil {
		return apperror.NewDatabaseError("failed to delete feedback", err)
	}
	return nil
}

// ListByOwner returns all feedback owned by the user, in stable insertion
// order (ascending id).
func (s *service) ListByOwner(ctx context.Context, username string) ([]Feedback, error) {
	query := `SELECT id, title, content, username FROM feedback WHERE username = $1 ORDER BY id`
	rows, err := s.db.Query(ctx, query, username)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list feedback", err)
	}
	defer rows.Close()

	var result []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan feedback row", err)
		}
		result = append(result, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read feedback rows", err)
	}
	return result, nil
}
