// Package lasgoerr collects the sentinel errors returned by lasgo.
//
// Callers should compare against these with errors.Is rather than string
// matching; call sites wrap them with fmt.Errorf("%w: ...", lasgoerr.ErrX, detail)
// to attach the offending value.
package lasgoerr

import "errors"

var (
	// ErrInvalidFormat signals a signature mismatch or unrecognised byte layout.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnsupportedVersion signals a spec version outside 1.1-1.4.
	ErrUnsupportedVersion = errors.New("unsupported spec version")

	// ErrUnsupportedPointFormat signals a point format id outside 0-10 or
	// incompatible with the declared spec version.
	ErrUnsupportedPointFormat = errors.New("unsupported point format")

	// ErrInconsistentHeader signals header counters/offsets that disagree
	// with the rest of the file.
	ErrInconsistentHeader = errors.New("inconsistent header")

	// ErrInconsistentVlr signals a known payload type stored under the wrong record id.
	ErrInconsistentVlr = errors.New("inconsistent VLR")

	// ErrInconsistentRecordLength signals a point record length smaller than
	// the format size, or not matching format + extra bytes + padding.
	ErrInconsistentRecordLength = errors.New("inconsistent point record length")

	// ErrPayloadTooLarge signals a VLR payload exceeding its format's size cap.
	ErrPayloadTooLarge = errors.New("VLR payload too large")

	// ErrCountTooLarge signals a point count exceeding the legacy 32-bit field's range.
	ErrCountTooLarge = errors.New("point count too large for legacy field")

	// ErrScaleOutOfRange signals a bounding box that cannot be represented
	// with the configured scale.
	ErrScaleOutOfRange = errors.New("scale out of range")

	// ErrUnrepresentableColumns signals a requested column combination that
	// no point format supports.
	ErrUnrepresentableColumns = errors.New("no point format supports the requested columns")

	// ErrUnsupportedUserType signals a user column element type outside the
	// ten supported base types (or fixed vectors of them).
	ErrUnsupportedUserType = errors.New("unsupported user column type")

	// ErrLengthMismatch signals a column length that does not match the point count.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrDuplicateVlrId signals an attempt to add a VLR whose (user-id,
	// record-id) is already occupied by a non-superseded VLR.
	ErrDuplicateVlrId = errors.New("duplicate VLR id")

	// ErrDuplicateRegistration signals an attempt to register a payload
	// codec against an already-registered (user-id, record-id).
	ErrDuplicateRegistration = errors.New("duplicate VLR registration")

	// ErrVlrNotFound signals a VLR removal request for a VLR not present in the dataset.
	ErrVlrNotFound = errors.New("VLR not found")

	// ErrIoError wraps an underlying stream failure.
	ErrIoError = errors.New("I/O error")

	// ErrInvalidArgument signals a caller-supplied value that violates a
	// documented precondition (e.g. a string too long for its padded field).
	ErrInvalidArgument = errors.New("invalid argument")
)
