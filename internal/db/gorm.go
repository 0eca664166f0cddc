package db

import (
	"errors"

	"github.com/blacktop/memsym/internal/model"
	"gorm.io/gorm"
)

// store implements the dataset operations shared by the gorm backed databases.
type store struct {
	db *gorm.DB
}

func (s *store) migrate() error {
	return s.db.AutoMigrate(&model.Dataset{}, &model.Symbol{})
}

func (s *store) Create(d *model.Dataset) error {
	if err := s.db.Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrExists
		}
		return err
	}
	return nil
}

func (s *store) Get(id string) (*model.Dataset, error) {
	var d model.Dataset
	if err := s.db.Preload("Symbols", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("symbols.id")
	}).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (s *store) List(project string) ([]*model.Dataset, error) {
	var datasets []*model.Dataset
	tx := s.db.Order("date").Order("created_at")
	if project != "" {
		tx = tx.Where("project = ?", project)
	}
	if err := tx.Find(&datasets).Error; err != nil {
		return nil, err
	}
	return datasets, nil
}

func (s *store) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", id).Delete(&model.Symbol{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Dataset{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

func (s *store) Close() error {
	if s.db == nil {
		return nil
	}
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
