package ordered

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_SetPreservesInsertionOrder(t *testing.T) {
	m := New()
	m.Set("c", String("1"))
	m.Set("a", String("2"))
	m.Set("b", String("3"))

	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, 3, m.Len())
}

func TestMap_OverwriteKeepsPosition(t *testing.T) {
	m := New()
	m.Set("a", String("1"))
	m.Set("b", String("2"))
	m.Set("a", String("3"))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, "3", m.GetScalar("a"))
}

func TestMap_Get(t *testing.T) {
	m := New()
	m.Set("a", String("1"))

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindScalar, v.Kind())
	assert.Equal(t, "1", v.Scalar())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMap_AppendCreatesListAtFirstSight(t *testing.T) {
	m := New()
	m.Set("before", String("x"))
	m.Append("codes", String("10001"))
	m.Set("after", String("y"))
	m.Append("codes", String("10002"))

	assert.Equal(t, []string{"before", "codes", "after"}, m.Keys())

	codes := m.GetList("codes")
	require.Len(t, codes, 2)
	assert.Equal(t, "10001", codes[0].Scalar())
	assert.Equal(t, "10002", codes[1].Scalar())
}

func TestMap_MarshalJSON_OrderAndNesting(t *testing.T) {
	inner := New()
	inner.Set("line1", String("1 Example St"))
	inner.Set("city", String("Melbourne"))

	m := New()
	m.Set("zeta", String("last alphabetically, first on the wire"))
	m.Set("address", Nested(inner))
	m.Set("tags", Strings("a", "b"))
	m.Set("count", Int(2))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":"last alphabetically, first on the wire",`+
			`"address":{"line1":"1 Example St","city":"Melbourne"},`+
			`"tags":["a","b"],"count":"2"}`,
		string(out))
}

func TestValue_Constructors(t *testing.T) {
	assert.Equal(t, "7", Int(7).Scalar())
	assert.Equal(t, KindList, Strings("a").Kind())
	assert.Equal(t, KindMap, Nested(New()).Kind())
}

func TestFromPairs_DuplicateKeys(t *testing.T) {
	m := FromPairs(
		Pair{Key: "a", Value: String("1")},
		Pair{Key: "b", Value: String("2")},
		Pair{Key: "a", Value: String("3")},
	)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, "3", m.GetScalar("a"))
}

func TestMap_GetScalarAndGetListKindMismatch(t *testing.T) {
	m := New()
	m.Set("list", Strings("a"))
	m.Set("scalar", String("x"))

	assert.Equal(t, "", m.GetScalar("list"))
	assert.Nil(t, m.GetList("scalar"))
	assert.Nil(t, m.GetList("missing"))
}
