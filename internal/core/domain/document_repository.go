package domain

import (
	"context"
	"time"
)

// DocumentRow is an uploaded project document joined with the uploader's name.
type DocumentRow struct {
	ID           int
	GroupID      int
	StudentID    int
	UploaderName string
	FileName     string
	FilePath     string
	UploadedAt   time.Time
}

// DocumentRepository defines the data-access contract for project documents.
type DocumentRepository interface {
	// ListByGroup returns a group's documents, newest first.
	ListByGroup(ctx context.Context, groupID int) ([]DocumentRow, error)

	// GetByID returns the document with the given id.
	// Returns (nil, nil) when none is found.
	GetByID(ctx context.Context, id int) (*DocumentRow, error)

	// Create records an uploaded document and returns the stored row.
	Create(ctx context.Context, groupID, studentID int, fileName, filePath string) (*DocumentRow, error)

	// Delete removes a document record.
	Delete(ctx context.Context, id int) error
}
