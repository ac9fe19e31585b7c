package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"removed": "p-0001"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("FORMAT_ERROR", "SKU", "SKU must not contain whitespace")
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORMAT_ERROR", resp.Error.Code)
	assert.Equal(t, "SKU", resp.Error.Field)
	assert.Equal(t, "SKU must not contain whitespace", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("removed p-0001")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "removed p-0001")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("NOT_FOUND", "", "no product matched the locator")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "no product matched the locator")
}

func TestOutputFormatter_TextErrorWithField(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error("RANGE_ERROR", "EffectiveEndDate", "must be after EffectiveStartDate")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [RANGE_ERROR] EffectiveEndDate:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("constructed %s", "p-0001")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "constructed p-0001")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errw := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errw,
		Verbose:   true,
	}

	formatter.VerboseLog("loaded session %q", "default")

	// Diagnostics never pollute the JSON stream.
	assert.Empty(t, out.String())
	assert.Contains(t, errw.String(), `loaded session "default"`)
}

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "record not found")
	assert.Equal(t, "record not found", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))

	wrapped := WrapExitError(ExitCommandError, "open session database", errors.New("permission denied"))
	assert.Contains(t, wrapped.Error(), "open session database")
	assert.Contains(t, wrapped.Error(), "permission denied")
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	// Wrapping an ExitError in another error still surfaces its code.
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", wrapped)))

	// Plain errors default to the generic failure code.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
}
