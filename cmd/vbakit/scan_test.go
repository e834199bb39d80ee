package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addScanFlags(cmd)
	return cmd
}

func TestGetScanConfigDefaults(t *testing.T) {
	config := getScanConfigFromFlags(newScanTestCmd())
	assert.Equal(t, ".", config.Root)
	assert.Equal(t, []string{".bas", ".cls"}, config.Extensions)
	assert.False(t, config.Strict)
}

func TestGetScanConfigOverrides(t *testing.T) {
	cmd := newScanTestCmd()
	require.NoError(t, cmd.Flags().Set("root", "src/modules"))
	require.NoError(t, cmd.Flags().Set("extensions", ".bas,.frm"))
	require.NoError(t, cmd.Flags().Set("strict", "true"))

	config := getScanConfigFromFlags(cmd)
	assert.Equal(t, "src/modules", config.Root)
	assert.Equal(t, []string{".bas", ".frm"}, config.Extensions)
	assert.True(t, config.Strict)
}

func TestGetNormalizeConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "normalize"}
	defaults := NewNormalizeConfig()
	cmd.Flags().Bool("dry-run", defaults.DryRun, "")
	cmd.Flags().Bool("diff", defaults.Diff, "")
	cmd.Flags().Bool("backup", defaults.Backup, "")
	cmd.Flags().String("backup-ext", defaults.BackupExt, "")

	config := getNormalizeConfigFromFlags(cmd)
	assert.False(t, config.DryRun)
	assert.Equal(t, ".bak", config.BackupExt)

	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	require.NoError(t, cmd.Flags().Set("diff", "true"))
	require.NoError(t, cmd.Flags().Set("backup-ext", ".orig"))

	config = getNormalizeConfigFromFlags(cmd)
	assert.True(t, config.DryRun)
	assert.True(t, config.Diff)
	assert.Equal(t, ".orig", config.BackupExt)
}

func TestGetMojibakeConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "mojibake"}
	defaults := NewMojibakeConfig()
	cmd.Flags().Bool("apply", defaults.Apply, "")
	cmd.Flags().Bool("backup", defaults.Backup, "")
	cmd.Flags().String("backup-ext", defaults.BackupExt, "")
	cmd.Flags().Bool("no-fix-utf8", defaults.NoFixUTF8, "")
	cmd.Flags().String("map", defaults.MapPath, "")
	cmd.Flags().Bool("fix-map", defaults.FixMap, "")
	cmd.Flags().Bool("spanish-defaults", defaults.SpanishDefaults, "")

	config := getMojibakeConfigFromFlags(cmd)
	assert.False(t, config.Apply)
	assert.False(t, config.NoFixUTF8)
	assert.Equal(t, ".bak", config.BackupExt)

	require.NoError(t, cmd.Flags().Set("apply", "true"))
	require.NoError(t, cmd.Flags().Set("spanish-defaults", "true"))
	require.NoError(t, cmd.Flags().Set("map", "fixes.json"))

	config = getMojibakeConfigFromFlags(cmd)
	assert.True(t, config.Apply)
	assert.True(t, config.SpanishDefaults)
	assert.Equal(t, "fixes.json", config.MapPath)
}
