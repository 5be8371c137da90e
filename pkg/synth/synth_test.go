package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welschmorgan/mocker/pkg/value"
)

func testContext(params map[string]string) *Context {
	ctx := NewContext(params, 1)
	ctx.Sequences = NewSequences()
	ctx.SequenceKey = "GET /test"
	return ctx
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   map[string]string
		want     string
	}{
		{
			name:     "no markers",
			template: "plain text",
			want:     "plain text",
		},
		{
			name:     "param substitution",
			template: "user {{param(id)}}",
			params:   map[string]string{"id": "42"},
			want:     "user 42",
		},
		{
			name:     "whitespace inside marker",
			template: "{{  param( id )  }}",
			params:   map[string]string{"id": "42"},
			want:     "42",
		},
		{
			name:     "const joins arguments",
			template: "{{const(a, b)}}",
			want:     "a,b",
		},
		{
			name:     "quoted argument is unwrapped",
			template: `{{const("x")}}`,
			want:     "x",
		},
		{
			name:     "multiple markers",
			template: "{{param(a)}}-{{param(b)}}",
			params:   map[string]string{"a": "1", "b": "2"},
			want:     "1-2",
		},
		{
			name:     "unknown directive passes through verbatim",
			template: "before {{mystery(1)}} after",
			want:     "before {{mystery(1)}} after",
		},
		{
			name:     "non-call text passes through",
			template: "{{ not a call }}",
			want:     "{{ not a call }}",
		},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Expand(tt.template, testContext(tt.params))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandUnboundParam(t *testing.T) {
	s := New()
	_, err := s.Expand("{{param(id)}}", testContext(nil))
	require.Error(t, err)

	var dirErr *DirectiveError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "param", dirErr.Directive)
}

func TestSynthesizeTree(t *testing.T) {
	template := value.Mapping(map[string]value.Value{
		"id":     value.String("{{param(id)}}"),
		"active": value.Bool(true),
		"count":  value.Int(3),
		"tags":   value.Sequence(value.String("{{const(a)}}"), value.String("literal")),
		"nested": value.Mapping(map[string]value.Value{
			"path": value.String("{{param(id)}}/{{param(id)}}"),
		}),
	})

	s := New()
	got, err := s.Synthesize(template, testContext(map[string]string{"id": "42"}))
	require.NoError(t, err)

	want := value.Mapping(map[string]value.Value{
		"id":     value.String("42"),
		"active": value.Bool(true),
		"count":  value.Int(3),
		"tags":   value.Sequence(value.String("a"), value.String("literal")),
		"nested": value.Mapping(map[string]value.Value{
			"path": value.String("42/42"),
		}),
	})
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestSynthesizeErrorPropagates(t *testing.T) {
	template := value.Sequence(
		value.String("fine"),
		value.Mapping(map[string]value.Value{"bad": value.String("{{param(missing)}}")}),
	)

	s := New()
	_, err := s.Synthesize(template, testContext(nil))

	var dirErr *DirectiveError
	require.ErrorAs(t, err, &dirErr)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "a", want: []string{"a"}},
		{in: "a, b", want: []string{"a", "b"}},
		{in: `"a, b", c`, want: []string{"a, b", "c"}},
		{in: "'x'", want: []string{"x"}},
		{in: "a,", want: []string{"a", ""}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitArgs(tt.in), "splitArgs(%q)", tt.in)
	}
}
