package resumes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-builder/resume/model"
)

// Service saves and reads snapshots on behalf of one principal at a time.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Save stores a new snapshot of data for userID. A blank or unknown template is saved as modern.
func (s *Service) Save(ctx context.Context, userID string, data model.ResumeData, templateID model.TemplateID) (Record, error) {
	return s.SaveExport(ctx, Record{UserID: userID, Data: data, TemplateID: templateID})
}

// SaveExport stores rec with a fresh id and timestamp, keeping any export metadata it carries.
func (s *Service) SaveExport(ctx context.Context, rec Record) (Record, error) {
	if rec.UserID == "" {
		return Record{}, ErrInvalidInput
	}
	if s.Repo == nil {
		return Record{}, errors.New("resumes repo not configured")
	}
	if !rec.TemplateID.Valid() {
		rec.TemplateID = model.TemplateModern
	}
	rec.ID = uuid.NewString()
	rec.Data = rec.Data.Clone()
	rec.CreatedAt = s.now()
	if err := s.Repo.Insert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get returns the snapshot when userID owns it. Snapshots of other users read as ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id string) (Record, error) {
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.UserID != userID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List pages through userID's snapshots.
func (s *Service) List(ctx context.Context, userID string, templateID model.TemplateID, order Order, limit, offset int) ([]Record, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.Query(ctx, Filter{UserID: userID, TemplateID: templateID}, order, limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
