package student_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/repository"
	"github.com/rpggio/roster/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStudentService_AddStudent_TrimsName(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(rec *student.Student) bool {
		return rec.Name == "Ann"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*student.Student).ID = 1
	}).Return(nil)

	svc := student.NewService(repo, nil)
	res := svc.AddStudent(ctx, "  Ann  ")
	require.True(t, res.OK())
	require.Equal(t, &student.Student{ID: 1, Name: "Ann"}, res.Value)
	require.Equal(t, "Record added (Name: Ann)", res.Message)
	require.Equal(t, res.Message, svc.StatusMessage())
	repo.AssertExpectations(t)
}

func TestStudentService_AddStudent_InvalidName(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	svc := student.NewService(repo, nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		res := svc.AddStudent(ctx, name)
		require.Nil(t, res.Value)
		require.Equal(t, student.StatusInvalid, res.Kind)
		require.Equal(t, "Error: Valid name required.", res.Message)
	}

	res := svc.AddStudent(ctx, strings.Repeat("x", student.MaxNameLength+1))
	require.Equal(t, student.StatusInvalid, res.Kind)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStudentService_AddStudent_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Create", ctx, mock.Anything).Return(errors.New("disk I/O error"))

	svc := student.NewService(repo, nil)
	res := svc.AddStudent(ctx, "Ann")
	require.Nil(t, res.Value)
	require.Equal(t, student.StatusStoreError, res.Kind)
	require.Equal(t, "Error: disk I/O error", res.Message)
}

func TestStudentService_GetSection(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("List", ctx, 0, 50).Return([]student.Student{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bo"}}, nil)
	repo.On("List", ctx, 50, 50).Return(nil, errors.New("database is locked"))

	svc := student.NewService(repo, nil)

	res := svc.GetSection(ctx, 0, 50)
	require.True(t, res.OK())
	require.Len(t, res.Value, 2)
	require.Equal(t, "2 record(s) returned.", res.Message)

	res = svc.GetSection(ctx, 50, 50)
	require.Equal(t, student.StatusStoreError, res.Kind)
	require.NotNil(t, res.Value)
	require.Empty(t, res.Value)
	require.Equal(t, "Error: database is locked", res.Message)
}

func TestStudentService_GetSection_InvalidLimit(t *testing.T) {
	repo := &mocks.StudentRepository{}
	svc := student.NewService(repo, nil)

	res := svc.GetSection(context.Background(), 0, 0)
	require.Equal(t, student.StatusInvalid, res.Kind)
	require.Empty(t, res.Value)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestStudentService_UpdateStudent(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Update", ctx, &student.Student{ID: 3, Name: "Robert"}).Return(nil)
	repo.On("Update", ctx, &student.Student{ID: 99, Name: "Nobody"}).Return(repository.ErrNotFound)

	svc := student.NewService(repo, nil)

	res := svc.UpdateStudent(ctx, &student.Student{ID: 3, Name: " Robert "})
	require.True(t, res.Value)
	require.Equal(t, "Record updated (Name: Robert)", res.Message)

	res = svc.UpdateStudent(ctx, &student.Student{ID: 99, Name: "Nobody"})
	require.False(t, res.Value)
	require.Equal(t, student.StatusNoRows, res.Kind)
	require.Equal(t, "No record updated.", res.Message)

	res = svc.UpdateStudent(ctx, nil)
	require.False(t, res.Value)
	require.Equal(t, student.StatusInvalid, res.Kind)

	res = svc.UpdateStudent(ctx, &student.Student{ID: 3, Name: " "})
	require.False(t, res.Value)
	require.Equal(t, "Error: Valid name required.", res.Message)
}

func TestStudentService_DeleteStudent(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Delete", ctx, int64(3)).Return(nil)
	repo.On("Delete", ctx, int64(4)).Return(repository.ErrNotFound)
	repo.On("Delete", ctx, int64(5)).Return(errors.New("readonly database"))

	svc := student.NewService(repo, nil)

	res := svc.DeleteStudent(ctx, 3)
	require.True(t, res.Value)
	require.Equal(t, "Record deleted (ID: 3)", res.Message)

	res = svc.DeleteStudent(ctx, 4)
	require.False(t, res.Value)
	require.Equal(t, "No record deleted.", res.Message)

	res = svc.DeleteStudent(ctx, 5)
	require.False(t, res.Value)
	require.Equal(t, student.StatusStoreError, res.Kind)
	require.Equal(t, "Error: readonly database", svc.StatusMessage())
}

func TestStudentService_Count(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.StudentRepository{}
	repo.On("Count", ctx).Return(12, nil)

	svc := student.NewService(repo, nil)
	res := svc.Count(ctx)
	require.Equal(t, 12, res.Value)
	require.Equal(t, "12 record(s) stored.", res.Message)
}
