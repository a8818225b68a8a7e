package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"clubhouse-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute(), buf.String())
	return buf.String()
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "club.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestHelpListsCommands(t *testing.T) {
	out := run(t, "--help")
	for _, name := range []string{"serve", "migrate", "sessions", "token", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	assert.Contains(t, out, "Version:    dev")
}

func TestMigrateThenPurge(t *testing.T) {
	sqliteEnv(t)

	run(t, "migrate")
	out := run(t, "sessions", "purge")
	assert.Equal(t, "Purged 0 expired session(s)\n", out)
}

func TestTokenCommandMintsVerifiableAssertion(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("AUTH_CLAIMS_SECRET", "cli-secret")

	out := run(t, "token", "--sub", "idp|7", "--email", "kit@example.com")
	raw := strings.TrimSpace(out)

	provider := auth.NewClaimsProvider(nil, auth.ClaimsConfig{Secret: "cli-secret"})
	claims, err := provider.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "idp|7", claims.Subject)
	assert.Equal(t, "kit@example.com", claims.Email)

	_, err = auth.NewClaimsProvider(nil, auth.ClaimsConfig{Secret: "other"}).Verify(raw)
	assert.Error(t, err)
}
