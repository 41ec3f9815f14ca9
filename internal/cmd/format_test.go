package cmd

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/cmd/output"
)

func TestAllowedOutputFormats(t *testing.T) {
	t.Parallel()

	want := OutputFormats{FormatJSON, FormatText, FormatYAML}
	got := AllowedOutputFormats()

	require.Equal(t, want, got)
}

func TestOutputFormats_String(t *testing.T) {
	t.Parallel()

	f := AllowedOutputFormats()
	// Should join lower-case names in lexicographical order
	want := "json, text, yaml"
	got := f.String()

	require.Equal(t, want, got)
}

func TestOutputFormat_StringAndType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fmt  OutputFormat
		want string
	}{
		{
			"JSON",
			FormatJSON,
			"json",
		},
		{
			"Text",
			FormatText,
			"text",
		},
		{
			"YAML",
			FormatYAML,
			"yaml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, tc.fmt.String())
			require.Equal(t, "format", tc.fmt.Type())
		})
	}
}

func TestOutputFormat_Set_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  OutputFormat
	}{
		{
			"json",
			"json",
			FormatJSON,
		},
		{
			"text",
			"text",
			FormatText,
		},
		{
			"yaml",
			"yaml",
			FormatYAML,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var f OutputFormat
			err := f.Set(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, f)
		})
	}
}

func TestOutputFormat_Set_Invalid(t *testing.T) {
	t.Parallel()

	invalid := "xml"
	var f OutputFormat
	err := f.Set(invalid)
	require.Error(t, err)
	// error message should mention invalid value and allowed list
	require.ErrorContains(t, err, fmt.Sprintf("invalid format '%s'", invalid))
	allowed := AllowedOutputFormats()
	require.Contains(t, err.Error(), allowed.String())
}

type nopPrinter struct{}

func (nopPrinter) Header(io.Writer, int) {}

func (nopPrinter) Item(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}

func (nopPrinter) Footer(io.Writer, int) {}

func TestNewOutputHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  OutputFormat
		printer output.Printer[string]
		want    string
		wantErr string
	}{
		{name: "json", format: FormatJSON, want: "{\n  \"results\": [\n    \"a\"\n  ]\n}\n"},
		{name: "yaml", format: FormatYAML, want: "results:\n  - a\n"},
		{name: "text", format: FormatText, printer: nopPrinter{}, want: "a\n"},
		{name: "text defaults", format: "", printer: nopPrinter{}, want: "a\n"},
		{name: "text without printer", format: FormatText, wantErr: "text output requires a printer"},
		{name: "unknown", format: "xml", wantErr: "invalid format 'xml'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			h, err := NewOutputHandler[string](tc.format, buf, tc.printer)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, h.HandleResults("a"))
			require.Equal(t, tc.want, buf.String())
		})
	}
}
