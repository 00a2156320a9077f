package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.dir = s.T().TempDir()
	for _, key := range []string{
		EnvConfigFile, EnvHost, EnvPort, EnvStorageType, EnvRedisURL,
		EnvSQLDriver, EnvSQLDSN, EnvDailyTimezone, EnvLogLevel,
	} {
		s.T().Setenv(key, "")
	}
}

func (s *ConfigSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigSuite) missingEnvFile() string {
	return filepath.Join(s.dir, "missing.env")
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := Load(s.missingEnvFile())
	s.Require().NoError(err)

	s.Equal(Default(), cfg)
	s.Equal(":8080", cfg.Server.Addr())
	s.Equal(StorageMemory, cfg.Storage.Type)
	s.Equal(slog.LevelInfo, cfg.LogLevel())

	loc, err := cfg.Location()
	s.Require().NoError(err)
	s.Equal(time.UTC, loc)
}

func (s *ConfigSuite) TestYAMLFile() {
	path := s.write("kmap.yaml", `
server:
  host: 127.0.0.1
  port: 9090
  shutdown_timeout: 5s
storage:
  type: sql
  sql_driver: pgx
  sql_dsn: postgres://kmap@localhost/kmap
daily:
  timezone: Australia/Melbourne
log:
  level: debug
`)
	s.T().Setenv(EnvConfigFile, path)

	cfg, err := Load(s.missingEnvFile())
	s.Require().NoError(err)

	s.Equal("127.0.0.1:9090", cfg.Server.Addr())
	s.Equal(5*time.Second, cfg.Server.ShutdownTimeout)
	s.Equal(15*time.Second, cfg.Server.ReadTimeout)
	s.Equal(StorageSQL, cfg.Storage.Type)
	s.Equal("pgx", cfg.Storage.SQLDriver)
	s.Equal(slog.LevelDebug, cfg.LogLevel())

	loc, err := cfg.Location()
	s.Require().NoError(err)
	s.Equal("Australia/Melbourne", loc.String())
}

func (s *ConfigSuite) TestDotenvFile() {
	envFile := s.write(".env", "STORAGE_TYPE=redis\nREDIS_URL=redis://cache:6379/1\nKMAP_PORT=7000\n")

	cfg, err := Load(envFile)
	s.Require().NoError(err)

	s.Equal(StorageRedis, cfg.Storage.Type)
	s.Equal("redis://cache:6379/1", cfg.Storage.RedisURL)
	s.Equal(7000, cfg.Server.Port)

	s.Empty(os.Getenv(EnvRedisURL), "dotenv values stay out of the process environment")
}

func (s *ConfigSuite) TestEnvironmentBeatsDotenvAndFile() {
	path := s.write("kmap.yaml", "log:\n  level: error\nserver:\n  port: 9000\n")
	envFile := s.write(".env", "KMAP_CONFIG="+path+"\nKMAP_PORT=7000\nLOG_LEVEL=warn\n")
	s.T().Setenv(EnvPort, "6000")

	cfg, err := Load(envFile)
	s.Require().NoError(err)

	s.Equal(6000, cfg.Server.Port)
	s.Equal("warn", cfg.Log.Level)
}

func (s *ConfigSuite) TestInvalidStorageType() {
	s.T().Setenv(EnvStorageType, "cassandra")

	_, err := Load(s.missingEnvFile())
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid config")
}

func (s *ConfigSuite) TestRedisRequiresURL() {
	s.T().Setenv(EnvStorageType, StorageRedis)

	_, err := Load(s.missingEnvFile())
	s.Error(err)
}

func (s *ConfigSuite) TestInvalidSQLDriver() {
	s.T().Setenv(EnvStorageType, StorageSQL)
	s.T().Setenv(EnvSQLDriver, "mysql")

	_, err := Load(s.missingEnvFile())
	s.Error(err)
}

func (s *ConfigSuite) TestInvalidTimezone() {
	s.T().Setenv(EnvDailyTimezone, "Mars/Olympus_Mons")

	_, err := Load(s.missingEnvFile())
	s.Require().Error(err)
	s.Contains(err.Error(), "invalid daily timezone")
}

func (s *ConfigSuite) TestInvalidPort() {
	s.T().Setenv(EnvPort, "eighty")
	_, err := Load(s.missingEnvFile())
	s.Error(err)

	s.T().Setenv(EnvPort, "70000")
	_, err = Load(s.missingEnvFile())
	s.Error(err)
}

func (s *ConfigSuite) TestBadYAML() {
	s.T().Setenv(EnvConfigFile, s.write("bad.yaml", "server: [unclosed"))

	_, err := Load(s.missingEnvFile())
	s.Error(err)
}
