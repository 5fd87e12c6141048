// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{"null", `null`, Null},
		{"true", `true`, Bool},
		{"false", `false`, Bool},
		{"integer", `42`, Number},
		{"float", `3.25`, Number},
		{"string", `"hello"`, String},
		{"list", `[1, "a"]`, List},
		{"object", `{"a": 1}`, Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Kind())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestParseKeepsMemberOrder(t *testing.T) {
	n, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": {"y": true, "b": null}}`))
	require.NoError(t, err)

	var keys []string
	for _, m := range n.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	var inner []string
	for _, m := range n.Get("mid").Members() {
		inner = append(inner, m.Key)
	}
	assert.Equal(t, []string{"y", "b"}, inner)
}

func TestMarshalRoundTripPreservesOrderAndNumbers(t *testing.T) {
	in := `{"title":"A <b> & c","sections":[{"heading":"Intro","text":"x"}],"big":12345678901234567890,"ratio":1.50}`
	n, err := Parse([]byte(in))
	require.NoError(t, err)

	out, err := n.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestUnmarshalIntoStructField(t *testing.T) {
	var holder struct {
		Data *Node `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data": {"b": 1, "a": 2}}`), &holder))
	require.NotNil(t, holder.Data)
	assert.Equal(t, "b", holder.Data.Members()[0].Key)

	var empty struct {
		Data *Node `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"data": null}`), &empty))
	assert.Nil(t, empty.Data)
}

func TestAccessors(t *testing.T) {
	n, err := Parse([]byte(`{"page": 3, "half": 2.5, "name": "fig", "ok": true, "list": [1, 2]}`))
	require.NoError(t, err)

	assert.Equal(t, "3", n.Get("page").Literal())
	assert.Equal(t, "2.5", n.Get("half").Literal())
	assert.Empty(t, n.Get("name").Literal())

	name, ok := n.Get("name").Str()
	assert.True(t, ok)
	assert.Equal(t, "fig", name)

	assert.Equal(t, Bool, n.Get("ok").Kind())

	assert.Len(t, n.Get("list").Items(), 2)
	assert.Nil(t, n.Get("missing"))
	assert.Nil(t, n.Get("name").Get("anything"))
	assert.Equal(t, Null, n.Get("missing").Kind())
}

func TestPretty(t *testing.T) {
	n := NewObject(
		Member{Key: "title", Value: NewString("Paper")},
		Member{Key: "sections", Value: NewList(
			NewObject(Member{Key: "heading", Value: NewString("Intro")}),
		)},
		Member{Key: "doi", Value: NewNull()},
	)

	got, err := n.Pretty()
	require.NoError(t, err)

	want := `{
  "title": "Paper",
  "sections": [
    {
      "heading": "Intro"
    }
  ],
  "doi": null
}`
	assert.Equal(t, want, got)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestMarshalYAMLKeepsOrder(t *testing.T) {
	n, err := Parse([]byte(`{"title": "T", "pages": 12, "authors": ["b", "a"], "doi": null}`))
	require.NoError(t, err)

	out, err := yaml.Marshal(n)
	require.NoError(t, err)

	want := "title: T\npages: 12\nauthors:\n    - b\n    - a\ndoi: null\n"
	assert.Equal(t, want, string(out))
}
