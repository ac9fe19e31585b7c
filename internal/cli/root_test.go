package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "draftbill", cmd.Use)
	assert.Contains(t, cmd.Long, "placeholders")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"construct", "update", "list", "describe", "export", "remove"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	sessionFlag := cmd.PersistentFlags().Lookup("session")
	require.NotNil(t, sessionFlag)
	assert.Equal(t, "default", sessionFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"list", "--format", "xml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// execDraftbill runs the CLI against a temp session database and returns
// stdout. The database path persists across calls within one test, so
// commands see each other's session state.
func execDraftbill(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	cmd.SetArgs(append(args, "--db", dbPath))
	err := cmd.Execute()
	return out.String(), err
}

func TestConstructListUpdateFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")

	out, err := execDraftbill(t, db,
		"construct", "product", "--fields", `{"Name":"Analytics Pro"}`, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	// The session survives across invocations.
	out, err = execDraftbill(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Analytics Pro")
	assert.Contains(t, out, "outstanding: SKU")

	_, err = execDraftbill(t, db,
		"update", "SKU", "ANALYTICS-PRO", "--name", "analytics pro")
	require.NoError(t, err)

	out, err = execDraftbill(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ready")
}

func TestUpdateRejectionExitsNonzero(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")

	_, err := execDraftbill(t, db,
		"construct", "product", "--fields", `{"Name":"Analytics Pro"}`)
	require.NoError(t, err)

	_, err = execDraftbill(t, db,
		"update", "SKU", `"has spaces!"`, "--name", "Analytics Pro")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// The placeholder is still outstanding.
	out, err := execDraftbill(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "outstanding: SKU")
}

func TestUpdateMissingLocator(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")
	_, err := execDraftbill(t, db, "update", "SKU", "X-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConstructInvalidFieldsJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")
	_, err := execDraftbill(t, db, "construct", "product", "--fields", "{not json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConstructUnknownKindFails(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")
	out, err := execDraftbill(t, db, "construct", "gadget", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SCHEMA_ERROR", resp.Error.Code)
}

func TestExportCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")

	_, err := execDraftbill(t, db,
		"construct", "product", "--fields", `{"Name":"Analytics Pro","SKU":"ANALYTICS-PRO"}`)
	require.NoError(t, err)
	_, err = execDraftbill(t, db,
		"construct", "product_rate_plan", "--fields", `{"Name":"Standard"}`)
	require.NoError(t, err)

	out, err := execDraftbill(t, db, "export")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "product", records[0]["zuora_api_type"])
	payload := records[1]["payload"].(map[string]any)
	assert.Equal(t, "@{Product[0].Id}", payload["ProductId"])
}

func TestDescribeCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")
	out, err := execDraftbill(t, db, "describe", "product")
	require.NoError(t, err)
	assert.Contains(t, out, "Product requires:")
	assert.Contains(t, out, "SKU")
}

func TestRemoveCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "session.db")

	out, err := execDraftbill(t, db,
		"construct", "product", "--fields", `{"Name":"Analytics Pro"}`, "--format", "json")
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data := resp.Data.(map[string]any)
	var env map[string]any
	rec, _ := json.Marshal(data["record"])
	require.NoError(t, json.Unmarshal(rec, &env))
	id := env["payload_id"].(string)

	_, err = execDraftbill(t, db, "remove", id)
	require.NoError(t, err)

	out, err = execDraftbill(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no payloads")

	_, err = execDraftbill(t, db, "remove", id)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
