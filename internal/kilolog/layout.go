package kilolog

import "fmt"

// Default column layout of a kilobot log row: timestep and simulation time,
// five fields per robot, one trailing summary field.
const (
	DefaultPrefix    = 2
	DefaultBlockSize = 5
	DefaultXField    = 2
	DefaultYField    = 3
	DefaultTrailer   = 1
)

// Layout describes where each robot's block sits in a row.
type Layout struct {
	Prefix    int `yaml:"prefix"`
	BlockSize int `yaml:"block_size"`
	XField    int `yaml:"x_field"`
	YField    int `yaml:"y_field"`
	Trailer   int `yaml:"trailer"`
}

func DefaultLayout() Layout {
	return Layout{
		Prefix:    DefaultPrefix,
		BlockSize: DefaultBlockSize,
		XField:    DefaultXField,
		YField:    DefaultYField,
		Trailer:   DefaultTrailer,
	}
}

// RobotFieldOffset returns the absolute column of field within robot id's block.
func RobotFieldOffset(prefix, blockSize, id, field int) int {
	return prefix + blockSize*id + field
}

// Width is the exact field count of a row holding n robots.
func (l Layout) Width(n int) int {
	return l.Prefix + l.BlockSize*n + l.Trailer
}

// XColumn and YColumn give the absolute columns of robot id's position.
func (l Layout) XColumn(id int) int {
	return RobotFieldOffset(l.Prefix, l.BlockSize, id, l.XField)
}

func (l Layout) YColumn(id int) int {
	return RobotFieldOffset(l.Prefix, l.BlockSize, id, l.YField)
}

func (l Layout) Validate() error {
	if l.Prefix < 0 || l.Trailer < 0 {
		return fmt.Errorf("layout: prefix and trailer must be non-negative")
	}
	if l.BlockSize < 2 {
		return fmt.Errorf("layout: block size must hold at least two fields, got %d", l.BlockSize)
	}
	if l.XField < 0 || l.XField >= l.BlockSize || l.YField < 0 || l.YField >= l.BlockSize {
		return fmt.Errorf("layout: position fields %d,%d outside block of %d", l.XField, l.YField, l.BlockSize)
	}
	if l.XField == l.YField {
		return fmt.Errorf("layout: x and y share field %d", l.XField)
	}
	return nil
}
