package lasgo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ordishs/lasgo/lasgoerr"
)

// Format identifies which on-disk container a path holds.
type Format int

const (
	FormatUnknown Format = iota
	FormatLAS
	FormatLAZ
)

func (f Format) String() string {
	switch f {
	case FormatLAS:
		return "LAS"
	case FormatLAZ:
		return "LAZ"
	default:
		return "unknown"
	}
}

// DetectFormat determines whether path holds an uncompressed LAS or
// compressed LAZ container: it checks the extension first, then confirms it
// by reading the 4-byte "LASF" magic from the file itself (both containers
// share the same magic; only the extension tells them apart), the way the
// teacher's file_detection.go's isLazFile/isLasFile/GetFileType do it.
func DetectFormat(path string) (Format, error) {
	want := FormatUnknown
	switch strings.ToLower(strings.TrimPrefix(extOf(path), ".")) {
	case "laz":
		want = FormatLAZ
	case "las":
		want = FormatLAS
	default:
		return FormatUnknown, fmt.Errorf("%w: %q has neither a .las nor a .laz extension", lasgoerr.ErrInvalidFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("%w: opening %q: %v", lasgoerr.ErrIoError, path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil || string(magic) != signature {
		return FormatUnknown, fmt.Errorf("%w: %q does not start with the %q signature", lasgoerr.ErrInvalidFormat, path, signature)
	}

	return want, nil
}

func extOf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i:]
	}
	return ""
}

// LidarFile is the narrow façade both the plain-LAS path and the LAZ path
// satisfy, letting a caller treat either uniformly without caring which
// container it opened (spec's "thin convenience wrappers that open files
// by path", generalized from the teacher's LasFile interface).
type LidarFile interface {
	Header() *Header
	PointCount() uint64
	IsCompressed() bool
	Close() error
}

// lasFile adapts a *Dataset opened from a plain .las stream to LidarFile.
type lasFile struct {
	ds     *Dataset
	closer io.Closer
}

// OpenLAS opens path as an uncompressed LAS file and reads it fully into a
// Dataset (spec §5 "open_las(path, mode, body)": the stream is released on
// every exit path via Close).
func OpenLAS(path string) (*lasFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %v", lasgoerr.ErrIoError, path, err)
	}
	br := bufio.NewReader(f)
	ds, err := ReadLAS(br)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &lasFile{ds: ds, closer: f}, nil
}

func (l *lasFile) Header() *Header       { return l.ds.Header }
func (l *lasFile) PointCount() uint64    { return l.ds.Header.PointCount64 }
func (l *lasFile) IsCompressed() bool    { return false }
func (l *lasFile) Dataset() *Dataset     { return l.ds }
func (l *lasFile) Close() error          { return l.closer.Close() }

var _ LidarFile = (*lasFile)(nil)
