package lasgo

import (
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// signature is the four-byte magic every LAS/LAZ file opens with.
const signature = "LASF"

// readSignature reads four bytes from r and fails unless they spell "LASF".
func readSignature(r io.Reader) error {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: reading signature: %v", lasgoerr.ErrIoError, err)
	}
	if string(buf) != signature {
		return fmt.Errorf("%w: signature %q, want %q", lasgoerr.ErrInvalidFormat, buf, signature)
	}
	return nil
}

// readPaddedString reads exactly n bytes and returns the prefix before the
// first NUL byte (or the whole n bytes if none is present).
func readPaddedString(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: reading padded string: %v", lasgoerr.ErrIoError, err)
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

// writePaddedString writes s followed by NUL bytes to reach exactly n
// bytes total. It fails with ErrInvalidArgument if s is longer than n.
func writePaddedString(w io.Writer, s string, n int) error {
	if len(s) > n {
		return fmt.Errorf("%w: string %q is %d bytes, field width is %d", lasgoerr.ErrInvalidArgument, s, len(s), n)
	}
	buf := make([]byte, n)
	copy(buf, s)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: writing padded string: %v", lasgoerr.ErrIoError, err)
	}
	return nil
}
