package lasgo

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCodecFindsRegisteredRange(t *testing.T) {
	entry := lookupCodec(UserIDLASFSpec, waveformPacketDescriptorLo)
	require.NotNil(t, entry)
	assert.Equal(t, UserIDLASFSpec, entry.userID)
}

func TestLookupCodecMissReturnsNil(t *testing.T) {
	entry := lookupCodec("no-such-user-id", 1)
	assert.Nil(t, entry)
}

func TestDecodePayloadFallsBackToRawBytes(t *testing.T) {
	buf := bytes.NewBufferString("opaque data")
	payload, err := decodePayload("unregistered-vendor", 42, buf, len("opaque data"))
	require.NoError(t, err)
	assert.Equal(t, []byte("opaque data"), payload)
}

func TestDecodePayloadUsesRegisteredCodec(t *testing.T) {
	tx := &TextAreaDescription{Text: "hello"}
	var buf bytes.Buffer
	require.NoError(t, tx.encode(&buf))

	payload, err := decodePayload(UserIDLASFSpec, RecordIDTextAreaDescription, &buf, buf.Len())
	require.NoError(t, err)
	assert.Equal(t, tx, payload)
}

func TestEncodePayloadRawBytesPassthrough(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodePayload(&buf, "anything", 1, []byte("raw")))
	assert.Equal(t, "raw", buf.String())
}

func TestEncodePayloadMissingCodecErrors(t *testing.T) {
	var buf bytes.Buffer
	err := encodePayload(&buf, "unregistered", 1, &TextAreaDescription{Text: "x"})
	require.Error(t, err)
}

func TestEncodedPayloadSizeMatchesActualWrite(t *testing.T) {
	tx := &TextAreaDescription{Text: "measurement notes"}
	size, err := encodedPayloadSize(UserIDLASFSpec, RecordIDTextAreaDescription, tx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tx.encode(&buf))
	assert.Equal(t, buf.Len(), size)
}

func TestRegisterVLRPayloadPanicsOnOverlap(t *testing.T) {
	assert.Panics(t, func() {
		registerVLRPayload(UserIDLASFSpec, RecordIDExtraBytes, RecordIDExtraBytes,
			func(r io.Reader, n int) (any, error) { return nil, nil },
			nil)
	})
}
