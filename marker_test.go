package msgpack

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MarkerTestSuite struct {
	suite.Suite
}

// TestMarkerCoverage confirms every byte except 0xc1 maps to exactly one
// marker tag, and 0xc1 is reported as unexpected.
func (s *MarkerTestSuite) TestMarkerCoverage() {
	for b := 0; b <= 0xff; b++ {
		r, err := NewReader(bytes.NewReader([]byte{byte(b)}))
		s.Require().NoError(err)

		m, err := ReadMarker(r)
		if b == 0xc1 {
			s.Require().Error(err)
			var unexpected *UnexpectedMarkerError
			s.Require().ErrorAs(err, &unexpected)
			s.Assert().Equal(byte(0xc1), unexpected.Byte)
			continue
		}
		s.Require().NoError(err, "byte 0x%02x should map to a marker", b)
		s.Assert().NotEqual(KindInvalid, m.Kind)
	}
}

func (s *MarkerTestSuite) TestFixFamilyPayloads() {
	cases := []struct {
		name string
		b    byte
		kind MarkerKind
		n    uint8
	}{
		{"PositiveFixnumZero", 0x00, KindPositiveFixnum, 0},
		{"PositiveFixnumMax", 0x7f, KindPositiveFixnum, 0x7f},
		{"NegativeFixnumMin", 0xe0, KindNegativeFixnum, 0xe0},
		{"NegativeFixnumMax", 0xff, KindNegativeFixnum, 0xff},
		{"FixedMap", 0x8a, KindFixedMap, 0x0a},
		{"FixedArray", 0x9b, KindFixedArray, 0x0b},
		{"FixedString", 0xbf, KindFixedString, 0x1f},
	}
	for _, c := range cases {
		s.Run(c.name, func() {
			m := markerTable[c.b]
			s.Assert().Equal(c.kind, m.Kind)
			s.Assert().Equal(c.n, m.N)
		})
	}

	s.Assert().Equal(int8(-32), markerTable[0xe0].Int8())
	s.Assert().Equal(int8(-1), markerTable[0xff].Int8())
}

func (s *MarkerTestSuite) TestReadMarkerAdvancesExactlyOneByte() {
	r, err := NewReader(bytes.NewReader([]byte{0xc0, 0xc3}))
	s.Require().NoError(err)

	m1, err := ReadMarker(r)
	s.Require().NoError(err)
	s.Assert().Equal(KindNil, m1.Kind)
	s.Assert().EqualValues(1, r.Count())

	m2, err := ReadMarker(r)
	s.Require().NoError(err)
	s.Assert().Equal(KindTrue, m2.Kind)
	s.Assert().EqualValues(2, r.Count())
}

func (s *MarkerTestSuite) TestReadMarkerEOFIsUnexpectedEOF() {
	r, err := NewReader(bytes.NewReader(nil))
	require.NoError(s.T(), err)

	_, err = ReadMarker(r)
	require.Error(s.T(), err)
	var markerErr *MarkerReadError
	require.ErrorAs(s.T(), err, &markerErr)
	assert.ErrorIs(s.T(), markerErr, io.ErrUnexpectedEOF)
}

func TestMarker(t *testing.T) {
	suite.Run(t, new(MarkerTestSuite))
}
