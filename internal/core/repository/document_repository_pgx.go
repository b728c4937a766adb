package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spms-dev/spms/internal/core/domain"
)

// PgxDocumentRepository implements domain.DocumentRepository using pgxpool.
type PgxDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new PgxDocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{pool: pool}
}

const documentSelect = `
	SELECT d.id, d.group_id, d.student_id, s.full_name, d.file_name, d.file_path, d.uploaded_at
	FROM project_documents d
	JOIN students s ON d.student_id = s.id
`

// ListByGroup returns a group's documents, newest first.
func (r *PgxDocumentRepository) ListByGroup(ctx context.Context, groupID int) ([]domain.DocumentRow, error) {
	rows, err := r.pool.Query(ctx, documentSelect+` WHERE d.group_id = $1 ORDER BY d.uploaded_at DESC`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.DocumentRow
	for rows.Next() {
		var d domain.DocumentRow
		err := rows.Scan(&d.ID, &d.GroupID, &d.StudentID, &d.UploaderName, &d.FileName, &d.FilePath, &d.UploadedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// GetByID returns the document with the given id.
// Returns (nil, nil) when none is found.
func (r *PgxDocumentRepository) GetByID(ctx context.Context, id int) (*domain.DocumentRow, error) {
	var d domain.DocumentRow
	err := r.pool.QueryRow(ctx, documentSelect+` WHERE d.id = $1`, id).Scan(
		&d.ID, &d.GroupID, &d.StudentID, &d.UploaderName, &d.FileName, &d.FilePath, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Create records an uploaded document and returns the stored row.
func (r *PgxDocumentRepository) Create(ctx context.Context, groupID, studentID int, fileName, filePath string) (*domain.DocumentRow, error) {
	query := `
		INSERT INTO project_documents (group_id, student_id, file_name, file_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, uploaded_at
	`

	d := domain.DocumentRow{
		GroupID:   groupID,
		StudentID: studentID,
		FileName:  fileName,
		FilePath:  filePath,
	}
	err := r.pool.QueryRow(ctx, query, groupID, studentID, fileName, filePath).Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a document record.
func (r *PgxDocumentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM project_documents WHERE id = $1`, id)
	return err
}
