package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDotEnv(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
}

// nestedDirs returns parent/child temp directories
func nestedDirs(t *testing.T) (string, string) {
	t.Helper()
	parent := t.TempDir()
	child := filepath.Join(parent, "northway_crm")
	require.NoError(t, os.Mkdir(child, 0o755))
	return parent, child
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name       string
		arg        string
		env        string
		childEnv   string
		parentEnv  string
		expected   string
		wantSource Source
	}{
		{
			name:       "argument wins",
			arg:        "sqlite:///arg.db",
			env:        "sqlite:///env.db",
			childEnv:   "DATABASE_URL=sqlite:///child.db\n",
			expected:   "sqlite:///arg.db",
			wantSource: SourceArgument,
		},
		{
			name:       "environment before dotenv",
			env:        "postgres://u:p@env/db",
			childEnv:   "DATABASE_URL=sqlite:///child.db\n",
			expected:   "postgres://u:p@env/db",
			wantSource: SourceEnv,
		},
		{
			name:       "working directory dotenv",
			childEnv:   "DATABASE_URL=\"postgresql://u:p@child/db\"\n",
			parentEnv:  "DATABASE_URL=sqlite:///parent.db\n",
			expected:   "postgresql://u:p@child/db",
			wantSource: SourceDotEnv,
		},
		{
			name:       "parent dotenv",
			childEnv:   "SECRET_KEY=abc\n",
			parentEnv:  "DATABASE_URL='sqlite:///parent.db'\n",
			expected:   "sqlite:///parent.db",
			wantSource: SourceDotEnv,
		},
		{
			name:       "argument is trimmed",
			arg:        "  sqlite://  ",
			expected:   "sqlite://",
			wantSource: SourceArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// restored after the test, even when a .env file exports it
			t.Setenv("DATABASE_URL", tt.env)

			parent, child := nestedDirs(t)
			if tt.childEnv != "" {
				writeDotEnv(t, child, tt.childEnv)
			}
			if tt.parentEnv != "" {
				writeDotEnv(t, parent, tt.parentEnv)
			}

			url, source, err := Resolve(tt.arg, child)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, child := nestedDirs(t)

	_, _, err := Resolve("", child)
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}

func TestEnvHelp(t *testing.T) {
	assert.Contains(t, EnvHelp(), "DATABASE_URL")
}
