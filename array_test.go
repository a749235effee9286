package msgpack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ArrayTestSuite struct {
	suite.Suite
}

func readerFrom(s *suite.Suite, b []byte) *Reader {
	r, err := NewReader(bytes.NewReader(b))
	s.Require().NoError(err)
	return r
}

func (s *ArrayTestSuite) TestReadArraySuccess() {
	data := []byte{0x93, 0x01, 0x02, 0x03} // fixarray(3) of positive fixnums.
	r := readerFrom(&s.Suite, data)

	out, err := ReadArray(r, ReadInt64Loose)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1, 2, 3}, out)
	s.Assert().EqualValues(4, r.Count())
}

func (s *ArrayTestSuite) TestReadArrayEmpty() {
	r := readerFrom(&s.Suite, []byte{0x90})
	out, err := ReadArray(r, ReadInt64Loose)
	s.Require().NoError(err)
	s.Assert().Empty(out)
}

func (s *ArrayTestSuite) TestReadArrayPropagatesFirstElementError() {
	// fixarray(3): a good fixnum, then a string marker where an int was
	// expected, then a third element that must never be reached.
	data := []byte{0x93, 0x01, 0xa0, 0x02}
	r := readerFrom(&s.Suite, data)

	out, err := ReadArray(r, ReadInt64Loose)
	s.Require().Error(err)
	s.Assert().Nil(out)
	require.ErrorIs(s.T(), err, ErrMarkerTypeMismatch)
	// Only the bytes up to and including the failed element's marker were
	// consumed; the third element byte is untouched.
	s.Assert().EqualValues(3, r.Count())
}

func (s *ArrayTestSuite) TestReadMapSuccess() {
	readString := func(r *Reader) (string, error) {
		return ReadStr(r, make([]byte, 8))
	}
	data := []byte{
		0x82, // fixmap(2)
		0xa1, 'a', 0x01, // "a": 1
		0xa1, 'b', 0x02, // "b": 2
	}
	r := readerFrom(&s.Suite, data)

	out, err := ReadMap(r, readString, ReadInt64Loose)
	s.Require().NoError(err)
	s.Assert().Equal(map[string]int64{"a": 1, "b": 2}, out)
}

func (s *ArrayTestSuite) TestReadMapPropagatesFirstValueError() {
	readString := func(r *Reader) (string, error) {
		return ReadStr(r, make([]byte, 8))
	}
	// fixmap(2): first pair decodes fine, second pair's value marker is
	// a string where an int was expected.
	data := []byte{
		0x82,
		0xa1, 'a', 0x01,
		0xa1, 'b', 0xa0,
	}
	r := readerFrom(&s.Suite, data)

	out, err := ReadMap(r, readString, ReadInt64Loose)
	s.Require().Error(err)
	s.Assert().Nil(out)
	require.ErrorIs(s.T(), err, ErrMarkerTypeMismatch)
}

func (s *ArrayTestSuite) TestReadMapPropagatesKeyError() {
	readString := func(r *Reader) (string, error) {
		return ReadStr(r, make([]byte, 8))
	}
	// fixmap(1) whose key marker is a positive fixnum, not a string.
	data := []byte{0x81, 0x01, 0x01}
	r := readerFrom(&s.Suite, data)

	out, err := ReadMap(r, readString, ReadInt64Loose)
	s.Require().Error(err)
	s.Assert().Nil(out)
	require.ErrorIs(s.T(), err, ErrMarkerTypeMismatch)
}

func TestArray(t *testing.T) {
	suite.Run(t, new(ArrayTestSuite))
}
