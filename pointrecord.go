package lasgo

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ordishs/lasgo/lasgoerr"
)

// RecordKind identifies one of the four point-record shapes a file's
// header + extra-bytes VLR can resolve to (spec §3 "PointRecord variants", §4.6).
type RecordKind int

const (
	// RecordKindPlain is just the formatted point (PointRecord<Fmt>).
	RecordKindPlain RecordKind = iota
	// RecordKindExtended is the point plus documented user fields
	// (ExtendedPointRecord<Fmt, UserSchema>).
	RecordKindExtended
	// RecordKindUndocumented is the point plus N undocumented trailing
	// bytes (UndocPointRecord<Fmt, N>).
	RecordKindUndocumented
	// RecordKindFull is the point plus user fields plus undocumented
	// trailing bytes (FullRecord<Fmt, UserSchema, N>).
	RecordKindFull
)

// UserColumnSpec is one logical user column in a record's schema. Vector
// columns correspond to VectorLen consecutive ExtraBytes entries named
// "name [0]".."name [VectorLen-1]" (spec §3, §9).
type UserColumnSpec struct {
	Name      string
	ElemType  ScalarType
	VectorLen int
}

// Size returns the on-disk size in bytes of one instance of this column.
func (c UserColumnSpec) Size() int { return c.ElemType.Size() * c.VectorLen }

// UserFieldSchema is the ordered set of documented user columns a record
// carries, built from a file's single ExtraBytes VLR (spec §4.6).
type UserFieldSchema struct {
	Columns []UserColumnSpec
}

// TotalSize returns the combined on-disk size in bytes of every column in the schema.
func (s UserFieldSchema) TotalSize() int {
	total := 0
	for _, c := range s.Columns {
		total += c.Size()
	}
	return total
}

// vectorEntryName matches the "base [index]" naming scheme for exploded
// vector-column extra-bytes entries (spec §9).
var vectorEntryName = regexp.MustCompile(`^(.*) \[(\d+)\]$`)

// schemaFromExtraBytes groups a flat sequence of ExtraBytes entries back
// into logical columns, re-assembling "name [0]".."name [n-1]" runs into a
// single vector column (spec §4.6, §9, testable property P7).
func schemaFromExtraBytes(eb *ExtraBytesPayload) (UserFieldSchema, error) {
	var schema UserFieldSchema
	if eb == nil {
		return schema, nil
	}

	entries := eb.Entries
	for i := 0; i < len(entries); {
		m := vectorEntryName.FindStringSubmatch(entries[i].Name)
		if m == nil {
			schema.Columns = append(schema.Columns, UserColumnSpec{
				Name: entries[i].Name, ElemType: entries[i].DataType, VectorLen: 1,
			})
			i++
			continue
		}

		base := m[1]
		idx, _ := strconv.Atoi(m[2])
		if idx != 0 {
			return schema, fmt.Errorf("%w: vector column %q does not start at index 0", lasgoerr.ErrInconsistentVlr, entries[i].Name)
		}

		elemType := entries[i].DataType
		n := 1
		for i+n < len(entries) {
			next := vectorEntryName.FindStringSubmatch(entries[i+n].Name)
			if next == nil || next[1] != base {
				break
			}
			wantIdx, _ := strconv.Atoi(next[2])
			if wantIdx != n {
				break
			}
			if entries[i+n].DataType != elemType {
				return schema, fmt.Errorf("%w: vector column %q has mismatched element types", lasgoerr.ErrInconsistentVlr, base)
			}
			n++
		}

		schema.Columns = append(schema.Columns, UserColumnSpec{Name: base, ElemType: elemType, VectorLen: n})
		i += n
	}

	return schema, nil
}

// RecordLayout is the resolved physical shape of every point record in a file.
type RecordLayout struct {
	Kind            RecordKind
	Format          PointFormat
	Schema          UserFieldSchema
	UndocumentedLen int
}

// WireSize returns the on-disk size in bytes of one point record under this layout.
func (l RecordLayout) WireSize() int {
	return l.Format.Size() + l.Schema.TotalSize() + l.UndocumentedLen
}

// ResolveRecordLayout determines a file's RecordKind from its header's
// point-record length and its (possibly absent) extra-bytes schema (spec §4.6).
func ResolveRecordLayout(format PointFormat, recordLength int, eb *ExtraBytesPayload) (RecordLayout, error) {
	d := recordLength - format.Size()
	if d < 0 {
		return RecordLayout{}, fmt.Errorf("%w: record length %d is smaller than format %d's size %d",
			lasgoerr.ErrInconsistentRecordLength, recordLength, format, format.Size())
	}

	schema, err := schemaFromExtraBytes(eb)
	if err != nil {
		return RecordLayout{}, err
	}
	schemaSize := schema.TotalSize()

	switch {
	case d == 0 && schemaSize == 0:
		return RecordLayout{Kind: RecordKindPlain, Format: format}, nil
	case d == 0 && schemaSize > 0:
		return RecordLayout{Kind: RecordKindExtended, Format: format, Schema: schema}, nil
	case d > 0 && schemaSize == 0:
		return RecordLayout{Kind: RecordKindUndocumented, Format: format, UndocumentedLen: d}, nil
	default:
		if schemaSize > d {
			return RecordLayout{}, fmt.Errorf("%w: extra-bytes schema needs %d bytes, only %d available",
				lasgoerr.ErrInconsistentRecordLength, schemaSize, d)
		}
		return RecordLayout{Kind: RecordKindFull, Format: format, Schema: schema, UndocumentedLen: d - schemaSize}, nil
	}
}
