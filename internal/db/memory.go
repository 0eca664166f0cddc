package db

import (
	"encoding/gob"
	"os"
	"slices"
	"strings"

	"github.com/blacktop/memsym/internal/model"
	"github.com/pkg/errors"
)

// Memory is a database that keeps datasets in memory and persists them to a gob
// file on Close.
type Memory struct {
	Datasets map[string]*model.Dataset
	Path     string
}

// NewInMemory creates a new in-memory database.
func NewInMemory(path string) (Database, error) {
	if path == "" {
		return nil, errors.New("'path' is required")
	}
	return &Memory{
		Datasets: make(map[string]*model.Dataset),
		Path:     path,
	}, nil
}

// Connect loads the gob file, if there is one.
func (m *Memory) Connect() error {
	f, err := os.Open(m.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&m.Datasets); err != nil {
		return errors.Wrapf(err, "failed to decode %s", m.Path)
	}
	return nil
}

// Create stores a new dataset.
// It returns model.ErrExists if the ID is taken.
func (m *Memory) Create(d *model.Dataset) error {
	if d.ID == "" {
		return errors.New("dataset has no ID")
	}
	if _, exists := m.Datasets[d.ID]; exists {
		return model.ErrExists
	}
	m.Datasets[d.ID] = d
	return nil
}

// Get returns the dataset for the given ID.
// It returns model.ErrNotFound if the ID does not exist.
func (m *Memory) Get(id string) (*model.Dataset, error) {
	d, exists := m.Datasets[id]
	if !exists {
		return nil, model.ErrNotFound
	}
	return d, nil
}

// List returns the datasets of a project without their symbols.
func (m *Memory) List(project string) ([]*model.Dataset, error) {
	datasets := []*model.Dataset{}
	for _, d := range m.Datasets {
		if project != "" && d.Project != project {
			continue
		}
		head := *d
		head.Symbols = nil
		datasets = append(datasets, &head)
	}
	slices.SortFunc(datasets, func(a, b *model.Dataset) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return datasets, nil
}

// Delete removes the given dataset.
// It returns model.ErrNotFound if the ID does not exist.
func (m *Memory) Delete(id string) error {
	if _, exists := m.Datasets[id]; !exists {
		return model.ErrNotFound
	}
	delete(m.Datasets, id)
	return nil
}

// Close writes the datasets to the gob file.
func (m *Memory) Close() error {
	f, err := os.Create(m.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m.Datasets); err != nil {
		return errors.Wrapf(err, "failed to encode %s", m.Path)
	}
	return f.Close()
}
