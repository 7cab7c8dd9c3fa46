package serde_test

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drewnoakes/msgpack-strict/provider"
	"github.com/drewnoakes/msgpack-strict/serde"
	"github.com/drewnoakes/msgpack-strict/tuple"
)

func roundTrip[T any](t *testing.T, value T) T {
	t.Helper()
	s, err := serde.NewSerialiser[T](nil, nil)
	require.NoError(t, err)
	d, err := serde.NewDeserialiser[T](0, nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Serialise(&buf, value))
	got, err := d.Deserialise(&buf)
	require.NoError(t, err)
	return got
}

func TestRoundTripPrimitiveStruct(t *testing.T) {
	type Point struct {
		X int32
		Y int32
	}
	got := roundTrip(t, Point{X: 3, Y: -4})
	require.Equal(t, Point{X: 3, Y: -4}, got)
}

func TestRoundTripNullablePointer(t *testing.T) {
	type Holder struct {
		Name *string
	}
	name := "hello"
	got := roundTrip(t, Holder{Name: &name})
	require.NotNil(t, got.Name)
	require.Equal(t, "hello", *got.Name)

	gotNil := roundTrip(t, Holder{Name: nil})
	require.Nil(t, gotNil.Name)
}

func TestRoundTripSequenceAndMapping(t *testing.T) {
	type Bag struct {
		Tags   []string
		Scores map[string]int32
	}
	in := Bag{Tags: []string{"a", "b", "c"}, Scores: map[string]int32{"x": 1, "y": 2}}
	got := roundTrip(t, in)
	require.Equal(t, in.Tags, got.Tags)
	require.Equal(t, in.Scores, got.Scores)
}

func TestRoundTripTuple(t *testing.T) {
	in := tuple.Of2[int32, string]{V0: 7, V1: "seven"}
	got := roundTrip(t, in)
	require.Equal(t, in, got)
}

type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

func (Color) EnumMembers() []string { return []string{"Red", "Green", "Blue"} }

func TestRoundTripEnum(t *testing.T) {
	got := roundTrip(t, ColorGreen)
	require.Equal(t, ColorGreen, got)
}

type Circle struct{ Radius float64 }
type Square struct{ Side float64 }

type Shape struct {
	circle *Circle
	square *Square
}

func (s Shape) UnionMembers() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(Circle{}), reflect.TypeOf(Square{})}
}

func (s Shape) Get() interface{} {
	if s.circle != nil {
		return *s.circle
	}
	if s.square != nil {
		return *s.square
	}
	return nil
}

func (s *Shape) Set(v interface{}) error {
	switch p := v.(type) {
	case Circle:
		s.circle = &p
	case Square:
		s.square = &p
	default:
		return fmt.Errorf("unexpected union payload type %T", v)
	}
	return nil
}

func TestRoundTripUnion(t *testing.T) {
	in := Shape{}
	require.NoError(t, in.Set(Circle{Radius: 2.5}))
	got := roundTrip(t, in)
	require.Equal(t, Circle{Radius: 2.5}, got.Get())
}

func TestRoundTripUnionOtherMember(t *testing.T) {
	in := Shape{}
	require.NoError(t, in.Set(Square{Side: 4}))
	got := roundTrip(t, in)
	require.Equal(t, Square{Side: 4}, got.Get())
}

type Nothing struct{}

func (Nothing) IsEmptySchema() {}

func TestRoundTripEmpty(t *testing.T) {
	got := roundTrip(t, Nothing{})
	require.Equal(t, Nothing{}, got)
}

type Person struct {
	Name string
	Age  int32 `wire:",default"`
}

func TestComplexFieldWithDefaultAllowsMissingOnRead(t *testing.T) {
	type PersonV1 struct {
		Name string
	}
	s, err := serde.NewSerialiser[PersonV1](nil, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, s.Serialise(&buf, PersonV1{Name: "Ada"}))

	d, err := serde.NewDeserialiser[Person](0, nil, nil)
	require.NoError(t, err)
	got, err := d.Deserialise(&buf)
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Name)
	require.Equal(t, int32(0), got.Age)
}

func TestUnexpectedFieldPolicyThrowRejectsExtraField(t *testing.T) {
	type Wide struct {
		Name string
		Note string
	}
	type Narrow struct {
		Name string
	}

	s, err := serde.NewSerialiser[Wide](nil, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, s.Serialise(&buf, Wide{Name: "a", Note: "b"}))

	dThrow, err := serde.NewDeserialiser[Narrow](provider.Throw, nil, nil)
	require.NoError(t, err)
	_, err = dThrow.Deserialise(&buf)
	require.Error(t, err)
}

func TestUnexpectedFieldPolicyIgnoreAllowsExtraField(t *testing.T) {
	type Wide struct {
		Name string
		Note string
	}
	type Narrow struct {
		Name string
	}

	s, err := serde.NewSerialiser[Wide](nil, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, s.Serialise(&buf, Wide{Name: "a", Note: "b"}))

	dIgnore, err := serde.NewDeserialiser[Narrow](provider.Ignore, nil, nil)
	require.NoError(t, err)
	got, err := dIgnore.Deserialise(&buf)
	require.NoError(t, err)
	require.Equal(t, "a", got.Name)
}
