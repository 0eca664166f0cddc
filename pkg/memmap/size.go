package memmap

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ByteSize is a capacity in bytes.
type ByteSize int64

// IEC size units.
const (
	KiB ByteSize = 1 << 10
	MiB ByteSize = 1 << 20
)

// ParseByteSize parses plain byte counts ("65536") as well as human readable
// sizes ("64KiB", "1 MiB"). Note that SI suffixes are decimal: "64KB" is 64000.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty byte size")
	}
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return ByteSize(n), nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse byte size %q", s)
	}
	return ByteSize(n), nil
}

func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10) + " B"
	}
	return humanize.IBytes(uint64(b))
}

// UnmarshalYAML accepts either an integer or a human readable size.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: byte size must be a scalar", value.Line)
	}
	size, err := ParseByteSize(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*b = size
	return nil
}

// MarshalYAML writes the size as a plain byte count.
func (b ByteSize) MarshalYAML() (any, error) {
	return int64(b), nil
}
