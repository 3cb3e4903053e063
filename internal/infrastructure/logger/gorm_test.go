package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewGormLogger_NamedGorm(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

	var _ gormlogger.Interface = gormLog

	gormLog.Info(context.Background(), "migrating %s", "contracts")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "gorm", logs[0].LoggerName)
	assert.Contains(t, logs[0].Message, "migrating contracts")
}

func TestGormLogger_LogMode(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

	cloned := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	clonedGorm, ok := cloned.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clonedGorm.logLevel)
}

func TestGormLogger_LevelGates(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)

	gormLog.Info(context.Background(), "ignored")
	gormLog.Warn(context.Background(), "ignored")
	gormLog.Error(context.Background(), "ignored")

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_Error(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Error)

	fc := func() (string, int64) {
		return "INSERT INTO cars (registration_number) VALUES (?)", 0
	}
	gormLog.Trace(context.Background(), time.Now(), fc, errors.New("duplicate key"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Error)

	fc := func() (string, int64) {
		return "SELECT * FROM contracts WHERE id = ?", 0
	}
	gormLog.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

	// Lookup misses are normal repository flow, not errors.
	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)

	begin := time.Now().Add(-time.Second)
	fc := func() (string, int64) {
		return "SELECT * FROM sync_jobs WHERE status = 'queued'", 42
	}
	gormLog.Trace(context.Background(), begin, fc, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info)

	fc := func() (string, int64) {
		return "SELECT * FROM cars WHERE company_id = ? AND status = 'in_stock'", 5
	}
	gormLog.Trace(context.Background(), time.Now(), fc, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)

	fields := make(map[string]zapcore.Field, len(logs[0].Context))
	for _, field := range logs[0].Context {
		fields[field.Key] = field
	}
	require.Contains(t, fields, "sql")
	require.Contains(t, fields, "rows")
	assert.Equal(t, int64(5), fields["rows"].Integer)
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)

	fc := func() (string, int64) {
		return "SELECT * FROM customers", 3
	}
	gormLog.Trace(context.Background(), time.Now(), fc, nil)

	assert.Empty(t, recorded.All())
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
