// Package symtab holds the memory-symbol record and its delimited text format.
package symtab

import (
	"fmt"
	"strings"
)

// Size bounds of a generated symbol.
const (
	MinSize      = 16
	MaxSize      = 2048
	MaxSmallSize = 128
)

// MaxAccessCount is the upper bound of access_count.
const MaxAccessCount = 100

// InputSection is the section a symbol was compiled into.
type InputSection string

const (
	SectionCode InputSection = "code"
	SectionData InputSection = "data"
	SectionBSS  InputSection = "bss"
)

// InputSections lists the input sections in canonical order.
var InputSections = []InputSection{SectionCode, SectionData, SectionBSS}

// Valid reports whether s is a known input section.
func (s InputSection) Valid() bool {
	for _, v := range InputSections {
		if s == v {
			return true
		}
	}
	return false
}

// OutputSection is the categorical output tag of a symbol.
type OutputSection string

const (
	OutputCode          OutputSection = "code"
	OutputData          OutputSection = "data"
	OutputInit          OutputSection = "init"
	OutputAlwaysPowerOn OutputSection = "always_power_on"
	OutputROAfterWrite  OutputSection = "ro_after_write"
)

// OutputSections lists the output sections in canonical order.
var OutputSections = []OutputSection{
	OutputCode,
	OutputData,
	OutputInit,
	OutputAlwaysPowerOn,
	OutputROAfterWrite,
}

var outputSectionDescriptions = map[OutputSection]string{
	OutputCode:          "code section",
	OutputData:          "data section",
	OutputInit:          "initialization section",
	OutputAlwaysPowerOn: "always powered-on section",
	OutputROAfterWrite:  "read-only after write section",
}

// Valid reports whether s is a known output section.
func (s OutputSection) Valid() bool {
	_, ok := outputSectionDescriptions[s]
	return ok
}

// Description returns a human readable description of the output section.
func (s OutputSection) Description() string {
	if desc, ok := outputSectionDescriptions[s]; ok {
		return desc
	}
	return "unknown section"
}

// Realtime is the declared timing sensitivity of a symbol.
type Realtime string

const (
	RealtimeHigh   Realtime = "High"
	RealtimeMedium Realtime = "Medium"
	RealtimeLow    Realtime = "Low"
)

// RealtimeLevels lists the realtime classes from most to least sensitive.
var RealtimeLevels = []Realtime{RealtimeHigh, RealtimeMedium, RealtimeLow}

// Valid reports whether r is a known realtime class.
func (r Realtime) Valid() bool {
	return r == RealtimeHigh || r == RealtimeMedium || r == RealtimeLow
}

// Folders is the catalog of project folders a symbol's source file may live in.
var Folders = []string{
	"customer", "custom/system",
	"core/mlm", "core/rlm", "core/system", "core/middle",
	"open_core/mlm", "open_core/rlm", "open_core/system", "open_core/middle",
	"base/hal", "base/prj_ram", "base/exthal",
	"open_base/hal", "open_base/prj_ram", "open_base/exthal",
}

// Symbol is one linker symbol placed into a physical memory region.
type Symbol struct {
	Name           string        `json:"name"`
	Module         string        `json:"module"`
	Filename       string        `json:"filename"`
	InputSection   InputSection  `json:"input_section"`
	Size           int           `json:"size"`
	Address        string        `json:"address"`
	PhysicalMemory string        `json:"physical_memory"`
	OutSection     string        `json:"out_section"`
	OutputSection  OutputSection `json:"output_section"`
	Realtime       Realtime      `json:"realtime"`
	AccessCount    int           `json:"access_count"`
	HWUsage        bool          `json:"hw_usage"`
	Folder         string        `json:"folder"`
	Cost           int64         `json:"cost"`
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s %d bytes @ %s (%s)", s.Name, s.Module, s.Size, s.PhysicalMemory, s.Realtime)
}

// OutSectionFor derives the output section name of a symbol placed in region.
func OutSectionFor(region string, section InputSection) string {
	if section == SectionCode {
		return region + "_code"
	}
	return region + "_data"
}

// FormatAddress renders an address the way the dataset stores it.
func FormatAddress(addr uint64) string {
	return fmt.Sprintf("%#x", addr)
}

// YesNo renders a boolean flag as stored in the dataset.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func parseYesNo(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "Yes":
		return true, true
	case "No":
		return false, true
	}
	return false, false
}

// Clone returns a copy of the symbol.
func (s *Symbol) Clone() *Symbol {
	c := *s
	return &c
}
