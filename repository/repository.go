package repository

import (
	"database/sql"
)

type Repository interface {
	books
	users
	consultations
}

// repository defines the app's repository layer. All queries go through the
// single pooled *sql.DB it owns.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}
