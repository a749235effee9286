package msgpack

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ExtTestSuite struct {
	suite.Suite
}

func (s *ExtTestSuite) TestDecodeTimestamp32() {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, 1000)
	r, err := NewReader(bytes.NewReader(payload))
	s.Require().NoError(err)

	v, err := DecodeTimestamp(r, 4)
	s.Require().NoError(err)
	ts, ok := v.(Timestamp)
	s.Require().True(ok)
	s.Assert().EqualValues(1000, ts.Seconds)
	s.Assert().Zero(ts.Nanoseconds)
}

func (s *ExtTestSuite) TestDecodeTimestamp64() {
	// 500_000_000 nanoseconds packed into the top 30 bits, 1000 seconds in the low 34.
	packed := (uint64(500_000_000) << 34) | uint64(1000)
	payload := make([]byte, 8)
	binary.BigEndian.PutUint64(payload, packed)
	r, err := NewReader(bytes.NewReader(payload))
	s.Require().NoError(err)

	v, err := DecodeTimestamp(r, 8)
	s.Require().NoError(err)
	ts, ok := v.(Timestamp)
	s.Require().True(ok)
	s.Assert().EqualValues(1000, ts.Seconds)
	s.Assert().EqualValues(500_000_000, ts.Nanoseconds)
}

func (s *ExtTestSuite) TestDecodeTimestamp96() {
	payload := make([]byte, 12)
	binary.BigEndian.PutUint32(payload[:4], 123456789)
	binary.BigEndian.PutUint64(payload[4:], uint64(int64(-1)))
	r, err := NewReader(bytes.NewReader(payload))
	s.Require().NoError(err)

	v, err := DecodeTimestamp(r, 12)
	s.Require().NoError(err)
	ts, ok := v.(Timestamp)
	s.Require().True(ok)
	s.Assert().EqualValues(-1, ts.Seconds)
	s.Assert().EqualValues(123456789, ts.Nanoseconds)
}

func (s *ExtTestSuite) TestDecodeTimestampInvalidSize() {
	r, err := NewReader(bytes.NewReader(make([]byte, 5)))
	s.Require().NoError(err)

	_, err = DecodeTimestamp(r, 5)
	s.Require().Error(err)
}

func (s *ExtTestSuite) TestRegisteredTimestampRoundTrip() {
	payload := make([]byte, 4)
	binary.BigEndian.PutUint32(payload, 42)
	data := append([]byte{0xd6, byte(int8(TimestampExtType))}, payload...)

	r, err := NewReader(bytes.NewReader(data))
	s.Require().NoError(err)

	typeID, v, err := DecodeRegisteredExt(r)
	s.Require().NoError(err)
	s.Assert().Equal(TimestampExtType, typeID)
	ts, ok := v.(Timestamp)
	s.Require().True(ok)
	s.Assert().EqualValues(42, ts.Seconds)
}

func (s *ExtTestSuite) TestUnregisteredExtReturnsMeta() {
	data := []byte{0xd4, 0x05, 0xaa} // FixExt1, type-id 5, unregistered.
	r, err := NewReader(bytes.NewReader(data))
	s.Require().NoError(err)

	typeID, v, err := DecodeRegisteredExt(r)
	s.Require().NoError(err)
	s.Assert().EqualValues(5, typeID)
	meta, ok := v.(ExtMeta)
	s.Require().True(ok)
	s.Assert().EqualValues(5, meta.TypeID)
	s.Assert().EqualValues(1, meta.Size)
}

func (s *ExtTestSuite) TestPeekMarkerDoesNotConsume() {
	pr := PeekReader(bytes.NewReader([]byte{0xc0, 0xc3}))

	m, err := PeekMarker(pr)
	s.Require().NoError(err)
	s.Assert().Equal(KindNil, m.Kind)

	r, err := NewReaderSize(pr, BUFFER_SIZE)
	s.Require().NoError(err)
	m2, err := ReadMarker(r)
	s.Require().NoError(err)
	s.Assert().Equal(KindNil, m2.Kind, "the peeked byte must still be readable")
}

func (s *ExtTestSuite) TestDecodeExtAndContinue() {
	data := []byte{0xd4, 0x07, 0xaa, 0xc3} // FixExt1(type 7, payload 0xaa), then True.
	r, err := NewReader(bytes.NewReader(data))
	s.Require().NoError(err)

	meta, err := ReadExtMeta(r)
	s.Require().NoError(err)

	var payloadByte byte
	var afterValue bool
	err = DecodeExtAndContinue(r, meta,
		func(payload io.Reader) error {
			b := make([]byte, 1)
			_, err := payload.Read(b)
			payloadByte = b[0]
			return err
		},
		func(tail io.Reader) error {
			rr, err := NewReaderSize(tail, BUFFER_SIZE)
			if err != nil {
				return err
			}
			afterValue, err = ReadBool(rr)
			return err
		},
	)
	s.Require().NoError(err)
	s.Assert().Equal(byte(0xaa), payloadByte)
	s.Assert().True(afterValue)
}

func TestExt(t *testing.T) {
	suite.Run(t, new(ExtTestSuite))
}
