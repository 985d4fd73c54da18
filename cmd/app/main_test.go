package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Th0mmi3/auto-comment/internal/config"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--headless=false", "--seen-db", "seen.db"}))

	cfg := config.Default()
	cfg.WalletFile = "from-env.json"
	cfg.MetricsAddr = ":9102"

	f := &flags{}
	f.headless, _ = cmd.Flags().GetBool("headless")
	f.seenDB, _ = cmd.Flags().GetString("seen-db")
	f.apply(cmd, cfg)

	assert.False(t, cfg.Headless)
	assert.Equal(t, "seen.db", cfg.SeenDB)
	assert.Equal(t, "from-env.json", cfg.WalletFile)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
}

func TestRootRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
