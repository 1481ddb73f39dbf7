package slicer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contrast/internal/slicer"
)

func openFixture(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.gcode")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func collectReverse(t *testing.T, content string, bufSize int) []string {
	t.Helper()
	f := openFixture(t, content)
	scanner, err := slicer.NewReverseScanner(f, bufSize)
	require.NoError(t, err)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestReverseScannerReadsBottomUp(t *testing.T) {
	lines := collectReverse(t, "one\ntwo\nthree\n", 256)
	assert.Equal(t, []string{"three", "two", "one"}, lines)
}

func TestReverseScannerNoTrailingNewline(t *testing.T) {
	lines := collectReverse(t, "one\ntwo\nthree", 256)
	assert.Equal(t, []string{"three", "two", "one"}, lines)
}

func TestReverseScannerEmptyFile(t *testing.T) {
	lines := collectReverse(t, "", 256)
	assert.Empty(t, lines)
}

func TestReverseScannerSingleLine(t *testing.T) {
	lines := collectReverse(t, "only\n", 256)
	assert.Equal(t, []string{"only"}, lines)
}

// Lines longer than the chunk size must be stitched back together from
// multiple reads.
func TestReverseScannerLinesSpanChunks(t *testing.T) {
	long := strings.Repeat("x", 700)
	content := "head\n" + long + "\ntail\n"

	lines := collectReverse(t, content, 256)
	assert.Equal(t, []string{"tail", long, "head"}, lines)
}

func TestReverseScannerManySmallChunks(t *testing.T) {
	var sb strings.Builder
	var want []string
	for i := 0; i < 200; i++ {
		line := strings.Repeat("ab", i%13+1)
		sb.WriteString(line)
		sb.WriteByte('\n')
		want = append([]string{line}, want...)
	}

	lines := collectReverse(t, sb.String(), 256)
	assert.Equal(t, want, lines)
}

func TestReverseScannerBlankLines(t *testing.T) {
	lines := collectReverse(t, "a\n\nb\n", 256)
	assert.Equal(t, []string{"b", "", "a"}, lines)
}
