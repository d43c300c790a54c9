package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDailyRotatingLogWriter(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	writer, err := newDailyRotatingLogWriter(tempDir)
	require.NoError(t, err)
	require.NotNil(t, writer)
	defer writer.Close()

	assert.Equal(t, time.Now().Format("2006-01-02"), writer.currentDate)
	assert.NotNil(t, writer.file)

	expectedFileName := logFilePrefix + time.Now().Format("2006-01-02") + logFileSuffix
	_, err = os.Stat(filepath.Join(tempDir, expectedFileName))
	assert.NoError(t, err)
}

func TestNewDailyRotatingLogWriter_InvalidPath(t *testing.T) {
	t.Parallel()
	writer, err := newDailyRotatingLogWriter("/nonexistent/path/that/should/not/exist")
	assert.Error(t, err)
	assert.Nil(t, writer)
}

func TestDailyRotatingLogWriter_Write(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	writer, err := newDailyRotatingLogWriter(tempDir)
	require.NoError(t, err)
	defer writer.Close()

	testData := []byte("test log message\n")
	n, err := writer.Write(testData)
	assert.NoError(t, err)
	assert.Equal(t, len(testData), n)

	content, err := os.ReadFile(filepath.Join(tempDir, logFilePrefix+time.Now().Format("2006-01-02")+logFileSuffix))
	assert.NoError(t, err)
	assert.Equal(t, testData, content)
}

func TestCleanupOldLogFiles(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	// create more dated log files than the retention limit
	for i := 1; i <= maxLogFileCount+3; i++ {
		name := logFilePrefix + time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02") + logFileSuffix
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644))
	}

	cleanupOldLogFiles(tempDir)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Len(t, entries, maxLogFileCount)
}
