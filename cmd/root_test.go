package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gnames/gntree/internal/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "gntree", cmd.Use,
		"Command name should be gntree")
}

// TestGetRootCmd_VersionFormat verifies version
// output format.
func TestGetRootCmd_VersionFormat(t *testing.T) {
	tests := []struct {
		msg  string
		flag string
	}{
		{"long flag", "--version"},
		{"short flag", "-V"},
	}

	for _, v := range tests {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{v.flag})

		err := cmd.Execute()
		require.NoError(t, err, v.msg)

		output := buf.String()
		assert.Contains(t, output, "v1.2.3", v.msg)
		assert.Contains(t, output, "abc123", v.msg)
		assert.NotContains(t, output, "gntree version:", v.msg)
	}
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "GNtree")
	assert.Contains(t, helpText, "GNTREE_")
	assert.Contains(t, helpText, "SFGA")
}

// TestGetRootCmd_Subcommands verifies all subcommands are attached.
func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()
	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	assert.Subset(t, names, []string{"tree", "flat", "compose"})
}

// TestGetRootCmd_Settings verifies bootstrap and error silencing.
func TestGetRootCmd_Settings(t *testing.T) {
	cmd := getRootCmd()

	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceErrors, "Errors should be silenced")
	assert.True(t, cmd.SilenceUsage, "Usage should be silenced on errors")
}

// TestGetRootCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each getRootCmd call should return new instance")
}

// TestGetRootCmd_InvalidCommand verifies error on
// invalid command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()

	assert.Error(t, err,
		"Should error on invalid command")
	assert.True(t,
		strings.Contains(buf.String(), "unknown") ||
			strings.Contains(err.Error(), "unknown"),
		"Error should indicate unknown command")
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	t.Setenv("GNTREE_TREE_ROOT_NAME", "Biota")
	t.Setenv("GNTREE_CSV_DELIMITER", "tab")

	savedHome, savedCfg := homeDir, cfg
	defer func() { homeDir, cfg = savedHome, savedCfg }()
	homeDir = home

	require.NoError(t, loadConfig())
	assert.Equal(t, "Biota", cfg.Tree.RootName)
	assert.Equal(t, '\t', cfg.Separator())
	assert.Equal(t, "score", cfg.CSV.ConfidenceField)
	assert.Equal(t, home, cfg.HomeDir)

	_, err := initConfig(t.TempDir())
	require.Error(t, err)
}
