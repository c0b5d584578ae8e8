package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studylog/internal/inference"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                8080,
			CORS:                CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
			AdviceRatePerMinute: 6,
		},
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Path:     "learning_log.db",
			Host:     "localhost",
			Port:     3306,
			Database: "studylog",
			Username: "user",
		},
		Gemini: GeminiConfig{
			Model:            "gemini-2.5-flash",
			BaseURL:          "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSeconds:   30,
			MaxRetryAttempts: inference.DefaultMaxRetryAttempts,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Progress: ProgressConfig{RecentWindowDays: 7},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	templateDir := t.TempDir()
	templatePath := filepath.Join(templateDir, "report.md.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte("# {{ .Title }}"), 0644))

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "custom sqlite path and log settings",
			configContent: `database:
  path: data/study.db
log:
  level: debug
  file: logs/studylog.log
progress:
  recent_window_days: 14
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Path = "data/study.db"
				cfg.Log.Level = "debug"
				cfg.Log.File = "logs/studylog.log"
				cfg.Progress.RecentWindowDays = 14
				return cfg
			},
		},
		{
			name: "mysql driver with explicit path",
			configContent: `database:
  driver: mysql
  host: db.example.com
  port: 3307
  database: study
  username: admin
`,
			useExplicitPath: true,
			env:             map[string]string{"DB_PASSWORD": "secret"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Driver = DriverMySQL
				cfg.Database.Host = "db.example.com"
				cfg.Database.Port = 3307
				cfg.Database.Database = "study"
				cfg.Database.Username = "admin"
				cfg.Database.Password = "secret"
				return cfg
			},
		},
		{
			name:          "gemini settings come from environment",
			configContent: "",
			env: map[string]string{
				"GEMINI_API_KEY": "test-key",
				"GEMINI_MODEL":   "gemini-2.0-pro",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Gemini.APIKey = "test-key"
				cfg.Gemini.Model = "gemini-2.0-pro"
				return cfg
			},
		},
		{
			name: "gemini retry attempts override",
			configContent: `gemini:
  max_retry_attempts: 3
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Gemini.MaxRetryAttempts = 3
				return cfg
			},
		},
		{
			name: "report template override",
			configContent: `report:
  template_file: ` + templatePath + `
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Report.TemplateFile = templatePath
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `database:
  driver: sqlite
  invalid yaml format here [[[
`,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown driver",
			configContent: `database:
  driver: postgres
`,
			wantErrorContains: []string{"invalid configuration", "driver"},
		},
		{
			name: "missing report template",
			configContent: `report:
  template_file: /nonexistent/report.md.go.tmpl
`,
			wantErrorContains: []string{"report.template_file must be an existing and readable file"},
		},
		{
			name: "zero timeout is rejected",
			configContent: `gemini:
  timeout_seconds: 0
`,
			wantErrorContains: []string{"invalid configuration", "timeout_seconds"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// viper ignores empty environment variables
			t.Setenv("GEMINI_API_KEY", "")
			t.Setenv("GEMINI_MODEL", "")
			t.Setenv("DB_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			tempDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "config.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if len(tt.wantErrorContains) > 0 {
				require.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestGeminiConfig_Timeout(t *testing.T) {
	cfg := GeminiConfig{TimeoutSeconds: 30}
	assert.Equal(t, "30s", cfg.Timeout().String())
}
