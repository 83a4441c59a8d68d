package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenNested(t *testing.T) {
	got := Flatten(map[string]any{
		"name": "alex",
		"profile": map[string]any{
			"age":  17,
			"tags": []any{"ai", "ml"},
		},
	})
	assert.Equal(t, map[string]any{
		"name":           "alex",
		"profile.age":    17,
		"profile.tags.0": "ai",
		"profile.tags.1": "ml",
	}, got)
}

func TestFlattenKeepsEmptyContainersAsLeaves(t *testing.T) {
	got := Flatten(map[string]any{
		"items": []any{map[string]any{}},
		"tags":  []any{},
	})
	assert.Equal(t, map[string]any{
		"items.0": map[string]any{},
		"tags":    []any{},
	}, got)
}

func TestFlattenStringSlice(t *testing.T) {
	got := Flatten(map[string]any{"scopes": []string{"public", "work"}})
	assert.Equal(t, map[string]any{"scopes.0": "public", "scopes.1": "work"}, got)
}

func TestFlattenOptions(t *testing.T) {
	nested := map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}}

	assert.Equal(t, map[string]any{"a/b/c": 1}, Flatten(nested, WithDelimiter("/")))
	assert.Equal(t,
		map[string]any{"a.b": map[string]any{"c": 1}},
		Flatten(nested, WithMaxDepth(2)),
	)
}

func TestUnflattenBuildsListsFromIndices(t *testing.T) {
	got := Unflatten(map[string]any{
		"tags.0":     "a",
		"tags.1":     "b",
		"profile.id": "x",
	})
	assert.Equal(t, map[string]any{
		"tags":    []any{"a", "b"},
		"profile": map[string]any{"id": "x"},
	}, got)
}

func TestUnflattenCompactsGaps(t *testing.T) {
	got := Unflatten(map[string]any{"tags.0": "a", "tags.2": "c", "tags.10": "k"})
	assert.Equal(t, []any{"a", "c", "k"}, got["tags"])
}

func TestUnflattenNonCanonicalIndexStaysMap(t *testing.T) {
	got := Unflatten(map[string]any{"codes.01": "a", "codes.1": "b"})
	assert.Equal(t, map[string]any{"01": "a", "1": "b"}, got["codes"])
}

func TestUnflattenOverwritesScalarWithContainer(t *testing.T) {
	got := Unflatten(map[string]any{
		"tags":   "legacy",
		"tags.0": "a",
	})
	assert.Equal(t, []any{"a"}, got["tags"])
}

func TestUnflattenMergesInlineContainers(t *testing.T) {
	got := Unflatten(map[string]any{
		"tags":   []any{"a", "b"},
		"tags.2": "c",
	})
	assert.Equal(t, []any{"a", "b", "c"}, got["tags"])
}

func TestUnflattenPreservesEmptyContainers(t *testing.T) {
	got := Unflatten(map[string]any{
		"items.0": map[string]any{},
		"tags":    []any{},
	})
	assert.Equal(t, []any{map[string]any{}}, got["items"])
	assert.Equal(t, []any{}, got["tags"])
}

func TestUnflattenNilReturnsEmptyMap(t *testing.T) {
	got := Unflatten(nil)
	require.NotNil(t, got)
	assert.Len(t, got, 0)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	cases := []struct {
		name   string
		params map[string]any
	}{
		{name: "flat scalars", params: map[string]any{"a": 1, "b": "x"}},
		{name: "array", params: map[string]any{"tags.0": "a", "tags.1": "b"}},
		{name: "gapped array", params: map[string]any{"tags.0": "a", "tags.3": "b"}},
		{name: "collision", params: map[string]any{"tags": "x", "tags.0": "a"}},
		{name: "empty composite", params: map[string]any{"items.0": map[string]any{}}},
		{name: "nested", params: map[string]any{"items.0.x": 1, "items.1.y": true, "title": "t"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			once := Normalize(tc.params)
			twice := Normalize(once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestNormalizeResolvesCollisionAndGaps(t *testing.T) {
	got := Normalize(map[string]any{
		"tags":   "legacy",
		"tags.0": "a",
		"tags.4": "b",
	})
	assert.Equal(t, map[string]any{"tags.0": "a", "tags.1": "b"}, got)
}

func TestNamespaceHelpers(t *testing.T) {
	params := map[string]any{
		"tags":      []any{},
		"tags.0":    "a",
		"tagsExtra": "keep",
		"title":     "t",
	}
	assert.True(t, InNamespace("tags.0", "tags"))
	assert.True(t, InNamespace("tags", "tags"))
	assert.False(t, InNamespace("tagsExtra", "tags"))

	assert.Equal(t, map[string]any{"tags": []any{}, "tags.0": "a"}, Subset(params, "tags"))
	assert.Equal(t, map[string]any{"tagsExtra": "keep", "title": "t"}, Omit(params, "tags"))
}

func TestGet(t *testing.T) {
	params := map[string]any{
		"profile.tags.0": "a",
		"profile.tags.1": "b",
		"items.0.x":      1,
	}

	v, ok := Get(params, "profile.tags")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)

	v, ok = Get(params, "items.0")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 1}, v)

	_, ok = Get(params, "missing")
	assert.False(t, ok)

	_, ok = Get(params, "items.5")
	assert.False(t, ok)

	v, ok = Get(params, "profile.tags.1")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestGetIndexesCompactedPositions(t *testing.T) {
	params := map[string]any{"tags.2": "a", "tags.7": "b"}

	v, ok := Get(params, "tags.1")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = Get(params, "tags.7")
	assert.False(t, ok)
}

func TestCloneDoesNotShareLeafContainers(t *testing.T) {
	leaf := map[string]any{}
	params := map[string]any{"items.0": leaf}
	cloned := Clone(params)
	cloned["items.0"].(map[string]any)["x"] = 1
	assert.Len(t, leaf, 0)
	assert.Nil(t, Clone(nil))
}
