package lasgo

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// ReadHeader parses the fixed-layout LAS header block from r, validating
// the signature, spec version, and point format as it goes (spec §6, §7).
func ReadHeader(r io.Reader) (*Header, error) {
	if err := readSignature(r); err != nil {
		return nil, err
	}

	h := &Header{}

	if err := binRead(r, &h.FileSourceID); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.globalEncoding); err != nil {
		return nil, err
	}

	var guidBytes [16]byte
	if _, err := io.ReadFull(r, guidBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: reading project GUID: %v", lasgoerr.ErrIoError, err)
	}
	h.GUID = guidFromWire(guidBytes)

	if err := binRead(r, &h.VersionInfo.Major); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.VersionInfo.Minor); err != nil {
		return nil, err
	}
	if !h.VersionInfo.Valid() {
		return nil, fmt.Errorf("%w: %s", lasgoerr.ErrUnsupportedVersion, h.VersionInfo)
	}

	sysID, err := readPaddedString(r, 32)
	if err != nil {
		return nil, err
	}
	h.SystemIdentifier = sysID

	genSW, err := readPaddedString(r, 32)
	if err != nil {
		return nil, err
	}
	h.GeneratingSoftware = genSW

	if err := binRead(r, &h.CreationDayOfYear); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.CreationYear); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.HeaderSizeField); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.PointDataOffset); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.NumberOfVLRs); err != nil {
		return nil, err
	}

	var fmtID uint8
	if err := binRead(r, &fmtID); err != nil {
		return nil, err
	}
	h.PointFormatID = PointFormat(fmtID)
	if !h.PointFormatID.Valid() {
		return nil, fmt.Errorf("%w: %d", lasgoerr.ErrUnsupportedPointFormat, fmtID)
	}
	if h.VersionInfo.Less(h.PointFormatID.MinVersion()) {
		return nil, fmt.Errorf("%w: point format %d requires spec >= %s, header declares %s",
			lasgoerr.ErrUnsupportedPointFormat, h.PointFormatID, h.PointFormatID.MinVersion(), h.VersionInfo)
	}

	if err := binRead(r, &h.RecordLength); err != nil {
		return nil, err
	}
	if int(h.RecordLength) < h.PointFormatID.Size() {
		return nil, fmt.Errorf("%w: record length %d smaller than format %d's size %d",
			lasgoerr.ErrInconsistentRecordLength, h.RecordLength, h.PointFormatID, h.PointFormatID.Size())
	}

	if err := binRead(r, &h.LegacyPointCount); err != nil {
		return nil, err
	}
	for i := range h.LegacyPointsByReturn {
		if err := binRead(r, &h.LegacyPointsByReturn[i]); err != nil {
			return nil, err
		}
	}

	if err := binRead(r, &h.Spatial.Scale.X); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.Spatial.Scale.Y); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.Spatial.Scale.Z); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.Spatial.Offset.X); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.Spatial.Offset.Y); err != nil {
		return nil, err
	}
	if err := binRead(r, &h.Spatial.Offset.Z); err != nil {
		return nil, err
	}

	var xMax, xMin, yMax, yMin, zMax, zMin float64
	for _, f := range []*float64{&xMax, &xMin, &yMax, &yMin, &zMax, &zMin} {
		if err := binRead(r, f); err != nil {
			return nil, err
		}
	}
	h.Spatial.Range = AxisInfo[Range]{
		X: Range{Min: xMin, Max: xMax},
		Y: Range{Min: yMin, Max: yMax},
		Z: Range{Min: zMin, Max: zMax},
	}

	if h.VersionInfo.AtLeast(Version{1, 3}) {
		if err := binRead(r, &h.WaveformRecordStart); err != nil {
			return nil, err
		}
	}

	if h.VersionInfo.AtLeast(Version{1, 4}) {
		if err := binRead(r, &h.EVLRStart); err != nil {
			return nil, err
		}
		if err := binRead(r, &h.EVLRCount); err != nil {
			return nil, err
		}
		if err := binRead(r, &h.PointCount64); err != nil {
			return nil, err
		}
		for i := range h.PointsByReturn14 {
			if err := binRead(r, &h.PointsByReturn14[i]); err != nil {
				return nil, err
			}
		}
	} else {
		h.PointCount64 = uint64(h.LegacyPointCount)
		for i, c := range h.LegacyPointsByReturn {
			h.PointsByReturn14[i] = uint64(c)
		}
	}

	wantSize := headerSizeForVersion(h.VersionInfo)
	if h.HeaderSizeField != wantSize {
		return nil, fmt.Errorf("%w: header size %d, want %d for spec %s",
			lasgoerr.ErrInconsistentHeader, h.HeaderSizeField, wantSize, h.VersionInfo)
	}

	return h, nil
}

// WriteHeader serialises h to w in the fixed on-disk layout (spec §6).
func WriteHeader(w io.Writer, h *Header) error {
	if _, err := io.WriteString(w, signature); err != nil {
		return fmt.Errorf("%w: writing signature: %v", lasgoerr.ErrIoError, err)
	}

	if err := binWrite(w, h.FileSourceID); err != nil {
		return err
	}
	if err := binWrite(w, h.globalEncoding); err != nil {
		return err
	}

	guidBytes := guidToWire(h.GUID)
	if _, err := w.Write(guidBytes[:]); err != nil {
		return fmt.Errorf("%w: writing project GUID: %v", lasgoerr.ErrIoError, err)
	}

	if err := binWrite(w, h.VersionInfo.Major); err != nil {
		return err
	}
	if err := binWrite(w, h.VersionInfo.Minor); err != nil {
		return err
	}
	if err := writePaddedString(w, h.SystemIdentifier, 32); err != nil {
		return err
	}
	if err := writePaddedString(w, h.GeneratingSoftware, 32); err != nil {
		return err
	}
	if err := binWrite(w, h.CreationDayOfYear); err != nil {
		return err
	}
	if err := binWrite(w, h.CreationYear); err != nil {
		return err
	}
	if err := binWrite(w, h.HeaderSizeField); err != nil {
		return err
	}
	if err := binWrite(w, h.PointDataOffset); err != nil {
		return err
	}
	if err := binWrite(w, h.NumberOfVLRs); err != nil {
		return err
	}
	if err := binWrite(w, uint8(h.PointFormatID)); err != nil {
		return err
	}
	if err := binWrite(w, h.RecordLength); err != nil {
		return err
	}
	if err := binWrite(w, h.LegacyPointCount); err != nil {
		return err
	}
	for _, c := range h.LegacyPointsByReturn {
		if err := binWrite(w, c); err != nil {
			return err
		}
	}

	if err := binWrite(w, h.Spatial.Scale.X); err != nil {
		return err
	}
	if err := binWrite(w, h.Spatial.Scale.Y); err != nil {
		return err
	}
	if err := binWrite(w, h.Spatial.Scale.Z); err != nil {
		return err
	}
	if err := binWrite(w, h.Spatial.Offset.X); err != nil {
		return err
	}
	if err := binWrite(w, h.Spatial.Offset.Y); err != nil {
		return err
	}
	if err := binWrite(w, h.Spatial.Offset.Z); err != nil {
		return err
	}

	r := h.Spatial.Range
	for _, v := range []float64{r.X.Max, r.X.Min, r.Y.Max, r.Y.Min, r.Z.Max, r.Z.Min} {
		if err := binWrite(w, v); err != nil {
			return err
		}
	}

	if h.VersionInfo.AtLeast(Version{1, 3}) {
		if err := binWrite(w, h.WaveformRecordStart); err != nil {
			return err
		}
	}

	if h.VersionInfo.AtLeast(Version{1, 4}) {
		if err := binWrite(w, h.EVLRStart); err != nil {
			return err
		}
		if err := binWrite(w, h.EVLRCount); err != nil {
			return err
		}
		if err := binWrite(w, h.PointCount64); err != nil {
			return err
		}
		for _, c := range h.PointsByReturn14 {
			if err := binWrite(w, c); err != nil {
				return err
			}
		}
	}

	return nil
}

// binRead and binWrite wrap encoding/binary's fixed-width primitive
// read/write with lasgo's IoError wrapping, so every header field goes
// through one error path.
func binRead(r io.Reader, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %v", lasgoerr.ErrIoError, err)
	}
	return nil
}

func binWrite(w io.Writer, v any) error {
	if err := binary.Write(w, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %v", lasgoerr.ErrIoError, err)
	}
	return nil
}
