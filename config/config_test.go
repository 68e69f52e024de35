package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
database:
  host: localhost
  user: app
  password: secret
  dbname: chat
  port: "5432"
server:
  port: 8080
auth:
  secret: test-secret
chatbot:
  url: http://localhost:9000/chat
`

func TestLoadConfigFillsDefaults(t *testing.T) {
	require.NoError(t, LoadConfig(writeConfig(t, minimalConfig)))

	require.Equal(t, "disable", GlobalConfig.Database.SSLMode)
	require.Equal(t, 24, GlobalConfig.Auth.ExpHour)
	require.Equal(t, 3, GlobalConfig.Chatbot.MaxRetries)
	require.Equal(t, 10, GlobalConfig.Chatbot.MaxHistory)
	require.Equal(t, 5, GlobalConfig.Upload.MaxPhotos)
	require.Equal(t, 10, GlobalConfig.Upload.MaxPhotoSizeMB)
	require.Equal(t, "UTC", GlobalConfig.Usage.Timezone)

	require.Equal(t, 5*time.Second, GlobalConfig.ConnectTimeout())
	require.Equal(t, 60*time.Second, GlobalConfig.ResponseTimeout())
	require.Equal(t, 500*time.Millisecond, GlobalConfig.RetryBase())
	require.Contains(t, GlobalConfig.DSN(), "host=localhost")
	require.Contains(t, GlobalConfig.DSN(), "dbname=chat")
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing database host", `
database:
  user: app
  dbname: chat
  port: "5432"
server:
  port: 8080
auth:
  secret: s
chatbot:
  url: http://localhost:9000/chat
`},
		{"missing auth secret", `
database:
  host: localhost
  user: app
  dbname: chat
  port: "5432"
server:
  port: 8080
chatbot:
  url: http://localhost:9000/chat
`},
		{"missing chatbot url", `
database:
  host: localhost
  user: app
  dbname: chat
  port: "5432"
server:
  port: 8080
auth:
  secret: s
`},
		{"port out of range", `
database:
  host: localhost
  user: app
  dbname: chat
  port: "5432"
server:
  port: 70000
auth:
  secret: s
chatbot:
  url: http://localhost:9000/chat
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, LoadConfig(writeConfig(t, tc.content)))
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	require.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
}
