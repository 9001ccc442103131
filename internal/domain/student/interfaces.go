package student

import "context"

// Repository provides persistence for students.
//
// Update and Delete return repository.ErrNotFound when no row matched.
type Repository interface {
	Create(ctx context.Context, rec *Student) error
	List(ctx context.Context, offset, limit int) ([]Student, error)
	ListAfter(ctx context.Context, afterID int64, limit int) ([]Student, error)
	Update(ctx context.Context, rec *Student) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
