package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolMap_Toggle(t *testing.T) {
	var m BoolMap

	assert.True(t, m.Toggle("u1"))
	assert.Equal(t, BoolMap{"u1": true}, m)

	assert.False(t, m.Toggle("u1"))
	assert.Empty(t, m)

	// A stored false counts as off and is switched on.
	m["u2"] = false
	assert.True(t, m.Toggle("u2"))
}

func TestBoolMap_ScanValue(t *testing.T) {
	v, err := BoolMap{"a": true}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"a":true}`, v)

	var m BoolMap
	require.NoError(t, m.Scan(`{"a":true,"b":false}`))
	assert.Equal(t, BoolMap{"a": true, "b": false}, m)

	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)

	assert.Error(t, m.Scan(42))
}

func TestNilCollectionsMarshalEmpty(t *testing.T) {
	b, err := IDList(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	b, err = BoolMap(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	b, err = json.Marshal(Card{Comments: IDList{}, Steps: IDList{"s1"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"comments":[]`)
	assert.Contains(t, string(b), `"steps":["s1"]`)
}

func TestIDList(t *testing.T) {
	l := IDList{"a", "b", "a", "c"}

	assert.True(t, l.Contains("b"))
	assert.False(t, l.Contains("z"))
	assert.Equal(t, IDList{"b", "c"}, l.Without("a"))
	assert.Equal(t, IDList{"a", "b", "a", "c"}, l, "Without must not modify the receiver")

	assert.True(t, IDList{"x", "y"}.IsPermutationOf(IDList{"y", "x"}))
	assert.False(t, IDList{"x", "y"}.IsPermutationOf(IDList{"x", "x"}))
	assert.False(t, IDList{"x"}.IsPermutationOf(IDList{"x", "y"}))

	var scanned IDList
	require.NoError(t, scanned.Scan([]byte(`["1","2"]`)))
	assert.Equal(t, IDList{"1", "2"}, scanned)

	v, err := IDList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestIngredients_Unmarshal(t *testing.T) {
	var req CreateProductRequest

	require.NoError(t, json.Unmarshal([]byte(`{"ingredients":["water","glycerin"]}`), &req))
	assert.Equal(t, Ingredients{"water", "glycerin"}, req.Ingredients)

	require.NoError(t, json.Unmarshal([]byte(`{"ingredients":"water, niacinamide, , zinc"}`), &req))
	assert.Equal(t, Ingredients{"water", "niacinamide", "zinc"}, req.Ingredients)

	assert.Error(t, json.Unmarshal([]byte(`{"ingredients":5}`), &req))
}

func TestUser_CanViewPostsOf(t *testing.T) {
	viewer := &User{ID: "v"}

	assert.True(t, viewer.CanViewPostsOf(&User{ID: "v"}))
	assert.True(t, viewer.CanViewPostsOf(&User{ID: "o", IsPublic: true}))
	assert.True(t, viewer.CanViewPostsOf(&User{ID: "o", Friends: IDList{"v"}}))
	assert.False(t, viewer.CanViewPostsOf(&User{ID: "o", Friends: IDList{"x"}}))
}

func TestStep_SnapshotProduct(t *testing.T) {
	p := &Product{
		ID:          "p1",
		ProductType: "serum",
		ProductName: "Vitamin C",
		Likes:       BoolMap{"owner": true},
		HolyGrails:  BoolMap{"someone-else": true},
	}

	var s Step
	s.SnapshotProduct(p, "owner")

	assert.Equal(t, "p1", s.ProductID)
	assert.Equal(t, "serum", s.ProductType)
	assert.Equal(t, "Vitamin C", s.ProductName)
	assert.True(t, s.IsLiked)
	assert.False(t, s.IsHolyGrail)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 40))
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
}
