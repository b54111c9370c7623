package lasgo

import (
	"fmt"
	"io"

	"github.com/ordishs/lasgo/lasgoerr"
)

// ReadVLR reads one VLR (or, if extended, one EVLR) header and payload from r.
func ReadVLR(r io.Reader, extended bool) (*VLR, error) {
	v := &VLR{Extended: extended}

	if err := binRead(r, &v.Reserved); err != nil {
		return nil, err
	}
	userID, err := readPaddedString(r, userIDLen)
	if err != nil {
		return nil, err
	}
	v.UserID = userID

	if err := binRead(r, &v.RecordID); err != nil {
		return nil, err
	}

	var payloadLen uint64
	if extended {
		if err := binRead(r, &payloadLen); err != nil {
			return nil, err
		}
	} else {
		var n uint16
		if err := binRead(r, &n); err != nil {
			return nil, err
		}
		payloadLen = uint64(n)
	}

	desc, err := readPaddedString(r, descriptionLen)
	if err != nil {
		return nil, err
	}
	v.Description = desc

	payload, err := decodePayload(v.UserID, v.RecordID, r, int(payloadLen))
	if err != nil {
		return nil, err
	}
	v.Payload = payload

	if err := validateVLR(v); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteVLR writes one VLR's (or EVLR's) header and payload to w.
func WriteVLR(w io.Writer, v *VLR) error {
	if err := validateVLR(v); err != nil {
		return err
	}

	n, err := encodedPayloadSize(v.UserID, v.RecordID, v.Payload)
	if err != nil {
		return err
	}
	if !v.Extended && n > maxNormalPayload {
		return fmt.Errorf("%w: normal VLR payload is %d bytes, cap is %d", lasgoerr.ErrPayloadTooLarge, n, maxNormalPayload)
	}

	if err := binWrite(w, v.Reserved); err != nil {
		return err
	}
	if err := writePaddedString(w, v.UserID, userIDLen); err != nil {
		return err
	}
	if err := binWrite(w, v.RecordID); err != nil {
		return err
	}
	if v.Extended {
		if err := binWrite(w, uint64(n)); err != nil {
			return err
		}
	} else {
		if err := binWrite(w, uint16(n)); err != nil {
			return err
		}
	}
	if err := writePaddedString(w, v.Description, descriptionLen); err != nil {
		return err
	}

	return encodePayload(w, v.UserID, v.RecordID, v.Payload)
}
