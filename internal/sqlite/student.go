package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/roster/internal/domain/student"
)

// StudentRepository implements student.Repository for SQLite
type StudentRepository struct {
	db *DB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student and sets rec.ID to the assigned ID
func (r *StudentRepository) Create(ctx context.Context, rec *student.Student) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO section (name) VALUES (?)`, rec.Name)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get student id: %w", err)
	}
	rec.ID = id

	return nil
}

// List returns students ordered by id, skipping offset
func (r *StudentRepository) List(ctx context.Context, offset, limit int) ([]student.Student, error) {
	query := `
		SELECT id, name
		FROM section
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return scanStudents(rows)
}

// ListAfter returns students with an id greater than afterID, ordered by id
func (r *StudentRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]student.Student, error) {
	query := `
		SELECT id, name
		FROM section
		WHERE id > ?
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return scanStudents(rows)
}

// Update replaces the name of the student with rec.ID
func (r *StudentRepository) Update(ctx context.Context, rec *student.Student) error {
	result, err := r.db.ExecContext(ctx, `UPDATE section SET name = ? WHERE id = ?`, rec.Name, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return expectRowAffected(result, "update")
}

// Delete removes the student with the given id
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM section WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return expectRowAffected(result, "delete")
}

// Count returns the number of stored students
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM section`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

func scanStudents(rows *sql.Rows) ([]student.Student, error) {
	defer rows.Close()

	var list []student.Student
	for rows.Next() {
		var s student.Student
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return list, nil
}
