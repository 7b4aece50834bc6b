package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupProtocolArrayFixture(t *testing.T) {
	t.Parallel()

	tuples := []ProtocolTuple{
		{Tag: 'P', Number: 0},
		{Tag: 'L', Number: 1},
		{Tag: 'A', Number: 10},
		{Tag: 'A', Number: 100},
		{Tag: 'D', Number: 100},
		{Tag: 'A', Number: 200},
		{Tag: 'D', Number: 200},
		{Tag: 'D', Number: 100},
	}

	set, err := GroupProtocolArray(tuples)
	require.NoError(t, err)

	assert.Equal(t, "L001", set.LinkProtocol)
	assert.Equal(t, "A010", set.CommandProtocol)

	waypoint, err := set.Resolve("waypoint_transfer")
	require.NoError(t, err)
	assert.Equal(t, RoleBinding{Proto: "A100", Datatypes: []string{"D100"}}, waypoint)

	route, err := set.Resolve("route_transfer")
	require.NoError(t, err)
	assert.Equal(t, RoleBinding{Proto: "A200", Datatypes: []string{"D200", "D100"}}, route)
}

func TestGroupProtocolArrayRejectsStrayDatatype(t *testing.T) {
	t.Parallel()

	_, err := GroupProtocolArray([]ProtocolTuple{{Tag: 'D', Number: 100}})
	require.Error(t, err)
}

func TestDecodeEncodeProtocolArrayRoundTrip(t *testing.T) {
	t.Parallel()

	tuples := []ProtocolTuple{{Tag: 'P', Number: 0}, {Tag: 'A', Number: 100}}
	payload := EncodeProtocolArray(tuples)
	decoded, err := DecodeProtocolArray(payload)
	require.NoError(t, err)
	assert.Equal(t, tuples, decoded)
}

func TestResolveUnknownRoleIsProtocolNotSupported(t *testing.T) {
	t.Parallel()

	set := ProtocolSet{Roles: map[string]RoleBinding{}}
	_, err := set.Resolve("runs")
	require.Error(t, err)
}
