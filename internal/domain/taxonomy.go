package domain

import "time"

// Category groups posts. Name is unique (case-sensitive, trimmed).
type Category struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag labels posts. Name is unique after normalization.
type Tag struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
