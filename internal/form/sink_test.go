package form

import (
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFilename(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	name := ReportFilename("granny_flat", at)

	assert.Equal(t, "QLD-Approval-Check-granny_flat-1709285400000.pdf", name)
	assert.Regexp(t, regexp.MustCompile(`^QLD-Approval-Check-[a-z_]+-\d+\.pdf$`), name)
}

func TestFileSink_Save(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewFileSink(fs, "out/reports")

	path, err := sink.Save(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "out/reports/report.pdf", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	infos, err := afero.ReadDir(fs, "out/reports")
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestFileSink_InvalidNames(t *testing.T) {
	sink := NewFileSink(afero.NewMemMapFs(), "out")
	for _, name := range []string{"", "../escape.pdf", "nested/report.pdf", ".hidden.pdf"} {
		t.Run(name, func(t *testing.T) {
			_, err := sink.Save(context.Background(), name, strings.NewReader("x"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid file name")
			assert.Error(t, CheckFilename(name))
		})
	}
	assert.NoError(t, CheckFilename(ReportFilename("granny_flat", time.UnixMilli(1))))
	assert.Error(t, CheckFilename(ReportFilename("a/b", time.UnixMilli(1))))
}

func TestFileSink_CancelledContextLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewFileSink(fs, "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sink.Save(ctx, "report.pdf", strings.NewReader("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	infos, err := afero.ReadDir(fs, "out")
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestFileSink_ReadOnlyFs(t *testing.T) {
	sink := NewFileSink(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out")

	_, err := sink.Save(context.Background(), "report.pdf", strings.NewReader("%PDF"))
	require.Error(t, err)
}

func TestFileSink_UsesOsFsByDefault(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(nil, dir)

	path, err := sink.Save(context.Background(), "report.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}
