package models

import "time"

type Note struct {
	ID     int64
	TaskID string
	// ProjectID is the project of the parent task. It is read-only.
	ProjectID string
	Body      string
	Author    UserRef
	CreatedAt time.Time
	UpdatedAt time.Time
}
