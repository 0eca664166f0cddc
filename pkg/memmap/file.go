package memmap

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type regionFile struct {
	Regions Table `yaml:"regions"`
}

// Parse decodes a YAML region table of the form:
//
//	regions:
//	  - name: ilm
//	    weight: 10
//	    capacity: 64KiB
func Parse(data []byte) (Table, error) {
	var rf regionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, errors.Wrap(err, "failed to decode region table")
	}
	if len(rf.Regions) == 0 {
		return nil, errors.Wrap(ErrInvalidTable, "no regions defined")
	}
	if err := rf.Regions.Validate(); err != nil {
		return nil, err
	}
	return rf.Regions, nil
}

// ReadFile reads a YAML region table from disk.
func ReadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read region table %s", path)
	}
	return Parse(data)
}

// Marshal encodes the table in the format accepted by Parse.
func (t Table) Marshal() ([]byte, error) {
	return yaml.Marshal(regionFile{Regions: t})
}
