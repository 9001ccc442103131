package mocks

import (
	"context"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/stretchr/testify/mock"
)

// StudentRepository is a mock for student.Repository.
type StudentRepository struct {
	mock.Mock
}

func (m *StudentRepository) Create(ctx context.Context, rec *student.Student) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *StudentRepository) List(ctx context.Context, offset, limit int) ([]student.Student, error) {
	args := m.Called(ctx, offset, limit)
	if list, ok := args.Get(0).([]student.Student); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]student.Student, error) {
	args := m.Called(ctx, afterID, limit)
	if list, ok := args.Get(0).([]student.Student); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) Update(ctx context.Context, rec *student.Student) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *StudentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StudentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
