package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/roster/internal/repository"
)

// Service is the only gateway to student persistence. It never returns raw
// store errors: every call reports its outcome through a Result.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu     sync.Mutex
	status string
}

// NewService creates a new student service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// StatusMessage returns the message of the most recent call. Concurrent
// callers overwrite each other; prefer Result.Message.
func (s *Service) StatusMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// AddStudent trims and validates name, then inserts a new student. The store
// assigns the ID.
func (s *Service) AddStudent(ctx context.Context, name string) Result[*Student] {
	trimmed, err := NormalizeName(name)
	if err != nil {
		return finish[*Student](s, nil, StatusInvalid, errorMessage(err))
	}

	rec := &Student{Name: trimmed}
	if err := s.repo.Create(ctx, rec); err != nil {
		return storeFailure[*Student](s, "add student", err, nil)
	}

	s.logger.Debug("student added", "id", rec.ID)
	return finish(s, rec, StatusOK, fmt.Sprintf("Record added (Name: %s)", rec.Name))
}

// GetSection returns at most limit students ordered by ascending ID, skipping
// offset. Failures yield an empty, non-nil slice.
func (s *Service) GetSection(ctx context.Context, offset, limit int) Result[[]Student] {
	if limit <= 0 {
		return finish(s, []Student{}, StatusInvalid, errorMessage(ErrInvalidPage))
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return storeFailure(s, "get section", err, []Student{})
	}
	return section(s, list)
}

// GetSectionAfter returns at most limit students with an ID greater than
// afterID, ordered by ascending ID.
func (s *Service) GetSectionAfter(ctx context.Context, afterID int64, limit int) Result[[]Student] {
	if limit <= 0 {
		return finish(s, []Student{}, StatusInvalid, errorMessage(ErrInvalidPage))
	}

	list, err := s.repo.ListAfter(ctx, afterID, limit)
	if err != nil {
		return storeFailure(s, "get section after", err, []Student{})
	}
	return section(s, list)
}

// UpdateStudent persists rec by ID. A missing ID is a soft failure with
// StatusNoRows.
func (s *Service) UpdateStudent(ctx context.Context, rec *Student) Result[bool] {
	valid, err := ValidateRecord(rec)
	if err != nil {
		return finish(s, false, StatusInvalid, errorMessage(err))
	}

	err = s.repo.Update(ctx, &valid)
	if errors.Is(err, repository.ErrNotFound) {
		return finish(s, false, StatusNoRows, "No record updated.")
	}
	if err != nil {
		return storeFailure(s, "update student", err, false)
	}

	s.logger.Debug("student updated", "id", valid.ID)
	return finish(s, true, StatusOK, fmt.Sprintf("Record updated (Name: %s)", valid.Name))
}

// DeleteStudent removes the student with the given ID.
func (s *Service) DeleteStudent(ctx context.Context, id int64) Result[bool] {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return finish(s, false, StatusNoRows, "No record deleted.")
	}
	if err != nil {
		return storeFailure(s, "delete student", err, false)
	}

	s.logger.Debug("student deleted", "id", id)
	return finish(s, true, StatusOK, fmt.Sprintf("Record deleted (ID: %d)", id))
}

// Count returns the number of stored students.
func (s *Service) Count(ctx context.Context) Result[int] {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return storeFailure(s, "count students", err, 0)
	}
	return finish(s, n, StatusOK, fmt.Sprintf("%d record(s) stored.", n))
}

func section(s *Service, list []Student) Result[[]Student] {
	if list == nil {
		list = []Student{}
	}
	return finish(s, list, StatusOK, fmt.Sprintf("%d record(s) returned.", len(list)))
}

func storeFailure[T any](s *Service, op string, err error, zero T) Result[T] {
	s.logger.Error("store operation failed", "op", op, "error", err)
	return finish(s, zero, StatusStoreError, "Error: "+err.Error())
}

func finish[T any](s *Service, value T, kind StatusKind, message string) Result[T] {
	s.mu.Lock()
	s.status = message
	s.mu.Unlock()
	return Result[T]{Value: value, Kind: kind, Message: message}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidName):
		return "Error: Valid name required."
	case errors.Is(err, ErrNameTooLong):
		return fmt.Sprintf("Error: Name must be %d characters or fewer.", MaxNameLength)
	case errors.Is(err, ErrInvalidRecord):
		return "Error: Valid record required."
	case errors.Is(err, ErrInvalidPage):
		return "Error: Page limit must be positive."
	default:
		return "Error: " + err.Error()
	}
}
