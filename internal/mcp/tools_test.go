package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/sqlite"
	"github.com/rpggio/roster/internal/view"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, pageSize int) (*view.Controller, *student.Service) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	svc := student.NewService(sqlite.NewStudentRepository(db), nil)
	return view.NewController(svc, view.Options{PageSize: pageSize}), svc
}

func TestAddStudentHandler(t *testing.T) {
	ctrl, _ := newTestController(t, 50)
	handler := AddStudentHandler(ctrl)

	t.Run("success", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, AddStudentInput{Name: " Ann "})
		require.NoError(t, err)
		require.True(t, result.OK)
		require.NotNil(t, result.Item)
		require.Equal(t, int64(1), result.Item.ID)
		require.Equal(t, "A", result.Item.Initial)
		require.Equal(t, "Record added (Name: Ann)", result.Status)
	})

	t.Run("blank name", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, AddStudentInput{Name: "  "})
		require.NoError(t, err)
		require.False(t, result.OK)
		require.Nil(t, result.Item)
		require.Equal(t, "Error: Valid name required.", result.Status)
		require.Equal(t, "invalid", result.Kind)
	})

	t.Run("status belongs to the call", func(t *testing.T) {
		ctrl, _ := newTestController(t, 50)
		ctx := context.Background()
		unsubscribe := ctrl.Subscribe(func(change view.Change) {
			if change.Kind == view.ChangeInsert {
				ctrl.DeleteItem(ctx, 999)
			}
		})
		defer unsubscribe()

		_, result, err := AddStudentHandler(ctrl)(ctx, nil, AddStudentInput{Name: "Cy"})
		require.NoError(t, err)
		require.True(t, result.OK)
		require.Equal(t, "Record added (Name: Cy)", result.Status)
		require.Equal(t, "No record deleted.", ctrl.Status())
	})
}

func TestEditStudentHandler(t *testing.T) {
	ctrl, _ := newTestController(t, 50)
	ctx := context.Background()
	ctrl.AddItem(ctx, "Bo")
	handler := EditStudentHandler(ctrl)

	t.Run("invalid id", func(t *testing.T) {
		_, _, err := handler(ctx, nil, EditStudentInput{ID: 0, Name: "X"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "INVALID_ARGUMENT", apiErr.Code)
	})

	t.Run("empty name cancels", func(t *testing.T) {
		_, result, err := handler(ctx, nil, EditStudentInput{ID: 1})
		require.NoError(t, err)
		require.True(t, result.Cancelled)
		require.Equal(t, "Bo", ctrl.Items()[0].Name)
	})

	t.Run("success", func(t *testing.T) {
		_, result, err := handler(ctx, nil, EditStudentInput{ID: 1, Name: "Robert"})
		require.NoError(t, err)
		require.True(t, result.OK)
		require.Equal(t, "Robert", result.Item.Name)
		require.Equal(t, "Record updated (Name: Robert)", result.Status)
	})

	t.Run("missing record", func(t *testing.T) {
		_, result, err := handler(ctx, nil, EditStudentInput{ID: 9, Name: "Nobody"})
		require.NoError(t, err)
		require.False(t, result.OK)
		require.Equal(t, "No record updated.", result.Status)
	})
}

func TestDeleteStudentHandler(t *testing.T) {
	ctrl, _ := newTestController(t, 50)
	ctx := context.Background()
	ctrl.AddItem(ctx, "Bo")
	handler := DeleteStudentHandler(ctrl)

	_, result, err := handler(ctx, nil, DeleteStudentInput{ID: 1})
	require.NoError(t, err)
	require.True(t, result.Cancelled)
	require.Equal(t, 1, ctrl.Len())

	_, result, err = handler(ctx, nil, DeleteStudentInput{ID: 1, Confirm: true})
	require.NoError(t, err)
	require.True(t, result.OK)
	require.Equal(t, "Record deleted (ID: 1)", result.Status)
	require.Equal(t, "ok", result.Kind)
	require.Zero(t, ctrl.Len())

	_, result, err = handler(ctx, nil, DeleteStudentInput{ID: 1, Confirm: true})
	require.NoError(t, err)
	require.False(t, result.OK)
	require.Equal(t, "No record deleted.", result.Status)
	require.Equal(t, "no_rows", result.Kind)
}

func TestPagingHandlers(t *testing.T) {
	ctrl, svc := newTestController(t, 2)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.True(t, svc.AddStudent(ctx, fmt.Sprintf("Student %d", i)).OK())
	}

	_, page, err := RefreshStudentsHandler(ctrl)(ctx, nil, NoInput{})
	require.NoError(t, err)
	require.Equal(t, PageResult{Fetched: 2, Count: 2, LoadedCount: 2, HasMore: true, Kind: "ok", Status: "2 record(s) returned."}, page)

	_, page, err = LoadMoreStudentsHandler(ctrl)(ctx, nil, NoInput{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Fetched)
	require.Equal(t, 3, page.Count)
	require.False(t, page.HasMore)

	_, page, err = LoadMoreStudentsHandler(ctrl)(ctx, nil, NoInput{})
	require.NoError(t, err)
	require.True(t, page.Skipped)
	require.Zero(t, page.Fetched)
	require.Empty(t, page.Status)

	_, list, err := ListStudentsHandler(ctrl)(ctx, nil, PageInput{Offset: 1, Limit: 5})
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	require.Len(t, list.Items, 2)
	require.Equal(t, int64(2), list.Items[0].ID)

	_, list, err = ListStudentsHandler(ctrl)(ctx, nil, PageInput{Offset: 10})
	require.NoError(t, err)
	require.Empty(t, list.Items)

	_, _, err = ListStudentsHandler(ctrl)(ctx, nil, PageInput{Offset: -1})
	require.Error(t, err)
}

func TestGetSectionHandler(t *testing.T) {
	_, svc := newTestController(t, 50)
	ctx := context.Background()
	svc.AddStudent(ctx, "Ann")
	svc.AddStudent(ctx, "Bo")

	_, section, err := GetSectionHandler(svc)(ctx, nil, PageInput{Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []student.Student{{ID: 2, Name: "Bo"}}, section.Students)
	require.Equal(t, "ok", section.Kind)
	require.Equal(t, "1 record(s) returned.", section.Status)
}

func TestStudentsResource(t *testing.T) {
	ctrl, _ := newTestController(t, 50)
	ctx := context.Background()
	ctrl.AddItem(ctx, "Ann")

	res, err := studentsResourceHandler(ctrl)(ctx, nil)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var doc studentsDocument
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &doc))
	require.Len(t, doc.Items, 1)
	require.Equal(t, "ID #1", doc.Items[0].Subtitle)
	require.Equal(t, 1, doc.LoadedCount)
}

func TestNewServer(t *testing.T) {
	ctrl, svc := newTestController(t, 50)

	require.NotPanics(t, func() {
		server := NewServer(Config{Controller: ctrl, Sections: svc})
		require.NotNil(t, server)
	})
}
