package lasgo

import (
	"fmt"

	"github.com/ordishs/lasgo/lasgoerr"
)

// PointFormat identifies one of the 11 fixed binary point record shapes
// (spec §3, GLOSSARY).
type PointFormat uint8

const (
	PointFormat0  PointFormat = 0
	PointFormat1  PointFormat = 1
	PointFormat2  PointFormat = 2
	PointFormat3  PointFormat = 3
	PointFormat4  PointFormat = 4
	PointFormat5  PointFormat = 5
	PointFormat6  PointFormat = 6
	PointFormat7  PointFormat = 7
	PointFormat8  PointFormat = 8
	PointFormat9  PointFormat = 9
	PointFormat10 PointFormat = 10
)

// pointFormatDesc is the static description of one point format's shape.
type pointFormatDesc struct {
	size       int
	hasTime    bool
	hasColor   bool
	hasNIR     bool
	hasWave    bool
	is14Style  bool // formats 6-10 use the wider flag/classification layout
	minVersion Version
	columns    ColumnSet
}

// pointFormatTable is the value-level dispatch table for the 11 point
// formats (spec §3 table). Index i describes PointFormat(i).
var pointFormatTable = [11]pointFormatDesc{
	0:  {size: 20, minVersion: Version{1, 1}},
	1:  {size: 28, hasTime: true, minVersion: Version{1, 1}},
	2:  {size: 26, hasColor: true, minVersion: Version{1, 2}},
	3:  {size: 34, hasTime: true, hasColor: true, minVersion: Version{1, 2}},
	4:  {size: 57, hasTime: true, hasWave: true, minVersion: Version{1, 3}},
	5:  {size: 63, hasTime: true, hasColor: true, hasWave: true, minVersion: Version{1, 3}},
	6:  {size: 30, hasTime: true, is14Style: true, minVersion: Version{1, 4}},
	7:  {size: 36, hasTime: true, hasColor: true, is14Style: true, minVersion: Version{1, 4}},
	8:  {size: 38, hasTime: true, hasColor: true, hasNIR: true, is14Style: true, minVersion: Version{1, 4}},
	9:  {size: 59, hasTime: true, hasWave: true, is14Style: true, minVersion: Version{1, 4}},
	10: {size: 67, hasTime: true, hasColor: true, hasNIR: true, hasWave: true, is14Style: true, minVersion: Version{1, 4}},
}

func init() {
	for i := range pointFormatTable {
		d := &pointFormatTable[i]
		d.columns = baseColumns
		d.columns = d.columns.With(ColSynthetic, ColKeyPoint, ColWithheld)
		if d.is14Style {
			d.columns = d.columns.With(ColOverlap, ColScannerChannel)
		}
		if d.hasTime {
			d.columns = d.columns.With(ColGPSTime)
		}
		if d.hasColor {
			d.columns = d.columns.With(ColColor)
		}
		if d.hasNIR {
			d.columns = d.columns.With(ColNIR)
		}
		if d.hasWave {
			d.columns = d.columns.With(ColWaveformDescriptorIndex, ColWaveformOffset, ColWaveformSize,
				ColWaveformReturnLocation, ColWaveformXYZDerivatives)
		}
	}
}

// Valid reports whether f is a known point format (0-10).
func (f PointFormat) Valid() bool {
	return int(f) < len(pointFormatTable)
}

func (f PointFormat) desc() pointFormatDesc {
	return pointFormatTable[f]
}

// Size returns the fixed on-disk size in bytes of this point format's record.
func (f PointFormat) Size() int { return f.desc().size }

// HasTime, HasColor, HasNIR, HasWaveform report which optional field groups
// this format carries.
func (f PointFormat) HasTime() bool     { return f.desc().hasTime }
func (f PointFormat) HasColor() bool    { return f.desc().hasColor }
func (f PointFormat) HasNIR() bool      { return f.desc().hasNIR }
func (f PointFormat) HasWaveform() bool { return f.desc().hasWave }

// Is14Style reports whether this format uses the wider formats-6-10 flag
// layout (separate classification byte, 16-bit scan angle, scanner channel).
func (f PointFormat) Is14Style() bool { return f.desc().is14Style }

// MinVersion returns the minimum spec version this format requires.
func (f PointFormat) MinVersion() Version { return f.desc().minVersion }

// Columns returns the set of semantic columns this format can carry.
func (f PointFormat) Columns() ColumnSet { return f.desc().columns }

func (f PointFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("PointFormat(%d)", uint8(f))
	}
	return fmt.Sprintf("format %d", uint8(f))
}

// SelectPointFormat chooses the smallest-numbered format whose supported
// columns are a superset of required (spec §4.3).
func SelectPointFormat(required ColumnSet) (PointFormat, error) {
	for i := range pointFormatTable {
		f := PointFormat(i)
		if f.Columns().Has(required) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %#v", lasgoerr.ErrUnrepresentableColumns, required)
}
