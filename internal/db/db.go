// Package db provides a database interface and implementations.
package db

import "github.com/blacktop/memsym/internal/model"

// Database is the interface that wraps the basic database operations.
type Database interface {
	// Connect connects to the database.
	Connect() error

	// Create stores a new dataset with its symbols.
	// It returns model.ErrExists if the ID is taken.
	Create(d *model.Dataset) error

	// Get returns the dataset with the given ID, symbols included.
	// It returns model.ErrNotFound if the ID does not exist.
	Get(id string) (*model.Dataset, error)

	// List returns the datasets of a project, or of every project when project
	// is empty, ordered by date. Symbols are not loaded.
	List(project string) ([]*model.Dataset, error)

	// Delete removes the dataset and its symbols.
	// It returns model.ErrNotFound if the ID does not exist.
	Delete(id string) error

	// Close closes the database.
	Close() error
}
