package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() Schema {
	return Schema{
		{Name: "ident", Kind: U32},
		{Name: "posn_lat", Kind: I32},
		{Name: "posn_lon", Kind: I32},
		{Name: "unused", Kind: U32},
		{Name: "cmnt", Kind: CharArray, Len: 40},
		{Name: "smbl", Kind: U16, Optional: true},
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	schema := sampleSchema()
	rec := NewRecord()
	rec.Set("ident", uint32(1))
	rec.Set("posn_lat", int32(1073741824))
	rec.Set("posn_lon", int32(-1073741824))
	rec.Set("unused", uint32(0))
	rec.Set("cmnt", "HOME")
	rec.Set("smbl", uint16(18))

	encoded, err := Encode(schema, rec)
	require.NoError(t, err)
	assert.Equal(t, Size(schema), len(encoded))

	decoded, err := Decode(schema, encoded)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), decoded.Fields["ident"])
	assert.Equal(t, int32(1073741824), decoded.Fields["posn_lat"])
	assert.Equal(t, "HOME", decoded.Fields["cmnt"])
	assert.Equal(t, uint16(18), decoded.Fields["smbl"])
}

// TestDecodeEncodeRoundTripMatchesOriginalRecordStructurally diffs the whole
// Record (not just a handful of looked-up fields) so a regression that
// drops or mistypes a field neighboring the ones TestDecodeEncodeRoundTrip
// happens to check is still caught.
func TestDecodeEncodeRoundTripMatchesOriginalRecordStructurally(t *testing.T) {
	t.Parallel()

	schema := sampleSchema()
	want := NewRecord()
	want.Set("ident", uint32(1))
	want.Set("posn_lat", int32(1073741824))
	want.Set("posn_lon", int32(-1073741824))
	want.Set("unused", uint32(0))
	want.Set("cmnt", "HOME")
	want.Set("smbl", uint16(18))

	encoded, err := Encode(schema, want)
	require.NoError(t, err)

	got, err := Decode(schema, encoded)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-tripped record differs (-want +got):\n%s", diff)
	}
}

func TestDecodeShortPayloadUsesDefaultsForOptionalTrailingField(t *testing.T) {
	t.Parallel()

	schema := sampleSchema()
	rec := NewRecord()
	rec.Set("ident", uint32(7))
	rec.Set("posn_lat", int32(0))
	rec.Set("posn_lon", int32(0))
	rec.Set("unused", uint32(0))
	rec.Set("cmnt", "SHORT")

	full, err := Encode(schema, rec)
	require.NoError(t, err)

	withoutSmbl := full[:len(full)-2]
	decoded, err := Decode(schema, withoutSmbl)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), decoded.Fields["smbl"], "missing optional trailing field should decode to zero value")
}

func TestDecodeRequiredFieldMissingIsShortPayload(t *testing.T) {
	t.Parallel()

	schema := sampleSchema()
	_, err := Decode(schema, []byte{1, 2, 3})

	var shortErr *ShortPayload
	require.ErrorAs(t, err, &shortErr)
	assert.Equal(t, "ident", shortErr.Field)
}

func TestCharArrayTruncatesAtNUL(t *testing.T) {
	t.Parallel()

	schema := Schema{{Name: "name", Kind: CharArray, Len: 8}}
	rec := NewRecord()
	rec.Set("name", "AB")

	encoded, err := Encode(schema, rec)
	require.NoError(t, err)
	assert.Len(t, encoded, 8)

	decoded, err := Decode(schema, encoded)
	require.NoError(t, err)
	assert.Equal(t, "AB", decoded.Fields["name"])
}

func TestCStringReadsToNULOrEndOfBuffer(t *testing.T) {
	t.Parallel()

	schema := Schema{
		{Name: "label", Kind: CString},
		{Name: "trailer", Kind: U8},
	}

	buf := append([]byte("hi"), 0, 9)
	decoded, err := Decode(schema, buf)
	require.NoError(t, err)
	assert.Equal(t, "hi", decoded.Fields["label"])
	assert.Equal(t, uint8(9), decoded.Fields["trailer"])
}

func TestArrayFieldRoundTrip(t *testing.T) {
	t.Parallel()

	schema := Schema{{Name: "values", Kind: Array, Elem: U16, Len: 3}}
	rec := NewRecord()
	rec.Set("values", []Value{uint16(1), uint16(2), uint16(3)})

	encoded, err := Encode(schema, rec)
	require.NoError(t, err)
	assert.Len(t, encoded, 6)

	decoded, err := Decode(schema, encoded)
	require.NoError(t, err)
	assert.Equal(t, []Value{uint16(1), uint16(2), uint16(3)}, decoded.Fields["values"])
}

func TestNestedRecordFieldRoundTrip(t *testing.T) {
	t.Parallel()

	sub := Schema{
		{Name: "lat", Kind: I32},
		{Name: "lon", Kind: I32},
	}
	schema := Schema{
		{Name: "id", Kind: U16},
		{Name: "posn", Kind: Record, Sub: sub},
	}

	inner := NewRecord()
	inner.Set("lat", int32(100))
	inner.Set("lon", int32(-100))

	rec := NewRecord()
	rec.Set("id", uint16(4))
	rec.Set("posn", inner)

	encoded, err := Encode(schema, rec)
	require.NoError(t, err)

	decoded, err := Decode(schema, encoded)
	require.NoError(t, err)
	posn, ok := decoded.Fields["posn"].(Record)
	require.True(t, ok)
	assert.Equal(t, int32(100), posn.Fields["lat"])
	assert.Equal(t, int32(-100), posn.Fields["lon"])
}

func TestFieldRangeOnWrongGoType(t *testing.T) {
	t.Parallel()

	schema := Schema{{Name: "count", Kind: U32}}
	rec := NewRecord()
	rec.Set("count", "not a number")

	_, err := Encode(schema, rec)
	var rangeErr *FieldRange
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "count", rangeErr.Field)
}
