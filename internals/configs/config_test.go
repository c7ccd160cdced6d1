package configs

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	gormLogger "gorm.io/gorm/logger"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("ML_TEST_STR", "  hello ")
	t.Setenv("ML_TEST_INT", "42")
	t.Setenv("ML_TEST_BAD_INT", "x")
	t.Setenv("ML_TEST_BOOL", "on")
	t.Setenv("ML_TEST_DUR", "90s")

	assert.Equal(t, "hello", GetEnv("ML_TEST_STR"))
	assert.Equal(t, "fallback", GetEnv("ML_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, GetEnvInt("ML_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("ML_TEST_BAD_INT", 1))
	assert.True(t, GetEnvBool("ML_TEST_BOOL", false))
	assert.True(t, GetEnvBool("ML_TEST_MISSING", true))
	assert.Equal(t, 90*time.Second, GetEnvDuration("ML_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("ML_TEST_STR", time.Second))
}

func TestDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	assert.Equal(t, "postgres", GetEnv("DB_DRIVER"))
}

func TestBindFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("ml-test-port", "", "")
	assert.NoError(t, fs.Parse([]string{"--ml-test-port=8081"}))

	BindFlag("ML_TEST_PORT", fs.Lookup("ml-test-port"))
	assert.Equal(t, "8081", GetEnv("ML_TEST_PORT"))

	BindFlag("ML_TEST_NIL", nil)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, parseLogLevel("SILENT"))
	assert.Equal(t, gormLogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormLogger.Warn, parseLogLevel(""))
}
