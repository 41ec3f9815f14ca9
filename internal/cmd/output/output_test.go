package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// fakePrinter records calls and fails on the item matching errOn.
type fakePrinter struct {
	items []sample
	errOn int
}

func (p *fakePrinter) Header(w io.Writer, count int) {
	_, _ = fmt.Fprintf(w, "HEADER %d\n", count)
}

func (p *fakePrinter) Item(w io.Writer, s sample) error {
	p.items = append(p.items, s)
	_, _ = fmt.Fprintf(w, "ITEM %d %s\n", s.ID, s.Name)
	if p.errOn != 0 && s.ID == p.errOn {
		return errors.New("item error")
	}
	return nil
}

func (p *fakePrinter) Footer(w io.Writer, count int) {
	_, _ = fmt.Fprintf(w, "FOOTER %d\n", count)
}

func TestHandlers_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.Equal(t, buf, NewJSONHandler[sample](buf, 2).Writer())
	require.Equal(t, buf, NewYAMLHandler[sample](buf, 2).Writer())
	require.Equal(t, buf, NewTextHandler[sample](buf, &fakePrinter{}).Writer())
}

func TestJSONHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		handle func(h *JSONHandler[sample]) error
		want   string
	}{
		{
			name:   "results",
			handle: func(h *JSONHandler[sample]) error { return h.HandleResults(sample{1, "Alice"}, sample{2, "Bob"}) },
			want:   `{"results":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]}` + "\n",
		},
		{
			name:   "empty results",
			handle: func(h *JSONHandler[sample]) error { return h.HandleResults() },
			want:   `{"results":[]}` + "\n",
		},
		{
			name:   "single result",
			handle: func(h *JSONHandler[sample]) error { return h.HandleResult(sample{3, "Carol"}) },
			want:   `{"result":{"id":3,"name":"Carol"}}` + "\n",
		},
		{
			name:   "error",
			handle: func(h *JSONHandler[sample]) error { return h.HandleError(errors.New("boom")) },
			want:   `{"error":"boom"}` + "\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			require.NoError(t, tc.handle(NewJSONHandler[sample](buf, 0)))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestJSONHandler_Indent(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, NewJSONHandler[sample](buf, 2).HandleResult(sample{1, "A"}))
	require.Equal(t, "{\n  \"result\": {\n    \"id\": 1,\n    \"name\": \"A\"\n  }\n}\n", buf.String())
}

func TestYAMLHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		handle func(h *YAMLHandler[sample]) error
		want   string
	}{
		{
			name:   "results",
			handle: func(h *YAMLHandler[sample]) error { return h.HandleResults(sample{1, "Alice"}, sample{2, "Bob"}) },
			want:   "results:\n  - id: 1\n    name: Alice\n  - id: 2\n    name: Bob\n",
		},
		{
			name:   "empty results",
			handle: func(h *YAMLHandler[sample]) error { return h.HandleResults() },
			want:   "results: []\n",
		},
		{
			name:   "single result",
			handle: func(h *YAMLHandler[sample]) error { return h.HandleResult(sample{3, "Carol"}) },
			want:   "result:\n  id: 3\n  name: Carol\n",
		},
		{
			name:   "error",
			handle: func(h *YAMLHandler[sample]) error { return h.HandleError(errors.New("boom")) },
			want:   "error: boom\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			require.NoError(t, tc.handle(NewYAMLHandler[sample](buf, 2)))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestTextHandler_HandleResults(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter{}
	h := NewTextHandler[sample](buf, p)

	require.NoError(t, h.HandleResults(sample{1, "Alice"}, sample{2, "Bob"}))
	require.Equal(t, "HEADER 2\nITEM 1 Alice\nITEM 2 Bob\nFOOTER 2\n", buf.String())
	require.Len(t, p.items, 2)
}

func TestTextHandler_Empty(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, NewTextHandler[sample](buf, &fakePrinter{}).HandleResults())
	require.Equal(t, "No items found\n", buf.String())
}

func TestTextHandler_ItemErrorStopsOutput(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewTextHandler[sample](buf, &fakePrinter{errOn: 1})

	err := h.HandleResults(sample{1, "Alice"}, sample{2, "Bob"})
	require.EqualError(t, err, "item error")
	require.Equal(t, "HEADER 2\nITEM 1 Alice\n", buf.String())
}

func TestTextHandler_ResultAndError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewTextHandler[sample](buf, &fakePrinter{})

	require.NoError(t, h.HandleResult(sample{7, "Solo"}))
	require.Equal(t, "ITEM 7 Solo\n", buf.String())

	want := errors.New("boom")
	require.Equal(t, want, h.HandleError(want))
}
