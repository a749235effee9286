package msgpack

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// fixedPayload is 16 bytes, matching FixExt16's implicit size.
type fixedPayload struct {
	ID   uint64
	Data [8]byte
}

type FixedTestSuite struct {
	suite.Suite
}

func (s *FixedTestSuite) TestDecodeFixedExt4() {
	data := []byte{
		0xd6,                   // FixExt4
		0x09,                   // type-id
		0x00, 0x00, 0x00, 0x2a, // uint32 42, big-endian
	}
	r, err := NewReader(bytes.NewReader(data))
	s.Require().NoError(err)

	type payload struct {
		V uint32
	}
	typeID, v, err := DecodeFixedExt[payload](r, KindFixExt4)
	s.Require().NoError(err)
	s.Assert().EqualValues(9, typeID)
	s.Assert().EqualValues(42, v.V)
}

func (s *FixedTestSuite) TestDecodeFixedExtSizeMismatch() {
	r, err := NewReader(bytes.NewReader([]byte{0xd4, 0x01, 0xaa}))
	s.Require().NoError(err)

	// fixedPayload is 16 bytes; pairing it with FixExt1 (implicit size 1) must
	// be rejected before any read is attempted.
	_, _, err = DecodeFixedExt[fixedPayload](r, KindFixExt1)
	require.ErrorIs(s.T(), err, ErrMarkerTypeMismatch)
}

func (s *FixedTestSuite) TestDecodeFixedExtWrongMarker() {
	// FixExt8 on the wire, but the caller asks for FixExt16.
	data := []byte{0xd7, 0x01, 0, 0, 0, 0, 0, 0, 0, 1}
	r, err := NewReader(bytes.NewReader(data))
	s.Require().NoError(err)

	_, _, err = DecodeFixedExt[fixedPayload](r, KindFixExt16)
	require.ErrorIs(s.T(), err, ErrMarkerTypeMismatch)
}

func (s *FixedTestSuite) TestSizeOfIsCachedAndConcurrencySafe() {
	var zero fixedPayload
	expected := binary.Size(&zero)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(s.T(), expected, sizeOf[fixedPayload]())
		}()
	}
	wg.Wait()
}

func TestFixed(t *testing.T) {
	suite.Run(t, new(FixedTestSuite))
}
