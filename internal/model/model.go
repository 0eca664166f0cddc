// Package model contains the dataset models for the database.
package model

import (
	"errors"
	"time"

	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("no dataset found")
	ErrExists   = errors.New("dataset exists")
)

// Dataset is one stored symbol table, usually a day of a project.
type Dataset struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Project   string    `gorm:"index" json:"project,omitempty"`
	Date      string    `gorm:"index" json:"date,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Symbols   []Symbol  `gorm:"foreignKey:DatasetID;constraint:OnDelete:CASCADE" json:"symbols,omitempty"`
}

// BeforeCreate assigns a random ID to datasets created without one.
func (d *Dataset) BeforeCreate(*gorm.DB) error {
	d.ensureID()
	return nil
}

func (d *Dataset) ensureID() {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
}

// Symbol is a row of a stored dataset.
type Symbol struct {
	ID             uint   `gorm:"primaryKey" json:"-"`
	DatasetID      string `gorm:"index;not null" json:"-"`
	Name           string `json:"name"`
	Module         string `gorm:"index" json:"module"`
	Filename       string `json:"filename"`
	InputSection   string `json:"input_section"`
	Size           int    `json:"size"`
	Address        string `json:"address"`
	PhysicalMemory string `gorm:"index" json:"physical_memory"`
	OutSection     string `json:"out_section"`
	OutputSection  string `json:"output_section"`
	Realtime       string `json:"realtime"`
	AccessCount    int    `json:"access_count"`
	HWUsage        bool   `json:"hw_usage"`
	Folder         string `json:"folder"`
	Cost           int64  `json:"cost"`
}

// NewDataset wraps a symbol table into a dataset with a fresh ID.
func NewDataset(project, date, source string, symbols []*symtab.Symbol) *Dataset {
	d := &Dataset{
		Project:   project,
		Date:      date,
		Source:    source,
		CreatedAt: time.Now(),
		Symbols:   FromSymtab(symbols),
	}
	d.ensureID()
	return d
}

// FromSymtab converts a symbol table to rows.
func FromSymtab(symbols []*symtab.Symbol) []Symbol {
	rows := make([]Symbol, 0, len(symbols))
	for _, s := range symbols {
		rows = append(rows, Symbol{
			Name:           s.Name,
			Module:         s.Module,
			Filename:       s.Filename,
			InputSection:   string(s.InputSection),
			Size:           s.Size,
			Address:        s.Address,
			PhysicalMemory: s.PhysicalMemory,
			OutSection:     s.OutSection,
			OutputSection:  string(s.OutputSection),
			Realtime:       string(s.Realtime),
			AccessCount:    s.AccessCount,
			HWUsage:        s.HWUsage,
			Folder:         s.Folder,
			Cost:           s.Cost,
		})
	}
	return rows
}

// Table converts the dataset's rows back to a symbol table.
func (d *Dataset) Table() []*symtab.Symbol {
	symbols := make([]*symtab.Symbol, 0, len(d.Symbols))
	for _, s := range d.Symbols {
		symbols = append(symbols, &symtab.Symbol{
			Name:           s.Name,
			Module:         s.Module,
			Filename:       s.Filename,
			InputSection:   symtab.InputSection(s.InputSection),
			Size:           s.Size,
			Address:        s.Address,
			PhysicalMemory: s.PhysicalMemory,
			OutSection:     s.OutSection,
			OutputSection:  symtab.OutputSection(s.OutputSection),
			Realtime:       symtab.Realtime(s.Realtime),
			AccessCount:    s.AccessCount,
			HWUsage:        s.HWUsage,
			Folder:         s.Folder,
			Cost:           s.Cost,
		})
	}
	return symbols
}
