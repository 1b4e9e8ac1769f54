package model

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.csv", "normal-file.csv"},
		{"file:with:colons.csv", "file_with_colons.csv"},
		{"file<with>brackets.csv", "file_with_brackets.csv"},
		{"file/with\\slashes.csv", "file_with_slashes.csv"},
		{"file|with|pipes.csv", "file_with_pipes.csv"},
		{"file?with*wildcards.csv", "file_with_wildcards.csv"},
		{"file\"with\"quotes.csv", "file_with_quotes.csv"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFileName(tt.input))
		})
	}
}

func TestNewAsset_RejectsEmptyID(t *testing.T) {
	_, err := NewAsset("  ", "Nameless", "dataset", KindTable)
	require.ErrorIs(t, err, ErrEmptyID)

	asset, err := NewAsset(" abcd-1234 ", "Weekly Deaths", "dataset", KindTable)
	require.NoError(t, err)
	assert.Equal(t, "abcd-1234", asset.ID)
	assert.Equal(t, KindTable, asset.Kind)
}

func TestAsset_FileName(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		want  string
	}{
		{"table", Asset{ID: "abcd-1234", Kind: KindTable}, "abcd-1234.csv"},
		{"blob with filename", Asset{ID: "abcd-1234", Kind: KindBlob, BlobFilename: "Report: 2023.pdf"}, "Report_ 2023.pdf"},
		{"blob without filename", Asset{ID: "abcd-1234", Kind: KindBlob}, "abcd-1234.file"},
		{"unsupported", Asset{ID: "abcd-1234", Kind: KindUnsupported}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.asset.FileName())
		})
	}
}

func TestAsset_CollisionSuffix(t *testing.T) {
	a := Asset{ID: "abcd-1234", Kind: KindBlob, BlobFilename: "report.pdf"}
	assert.Equal(t, "_abcd-1234", a.CollisionSuffix())
	assert.Equal(t, filepath.Join("/out", "report_abcd-1234.pdf"), JoinPath("/out", a.FileName(), a.CollisionSuffix()))

	odd := Asset{ID: "ab/cd", Kind: KindTable}
	assert.Equal(t, "_ab_cd", odd.CollisionSuffix())
}

func TestAsset_MetadataFileName(t *testing.T) {
	assert.Equal(t, "abcd-1234_metadata.json", Asset{ID: "abcd-1234"}.MetadataFileName())
}

func TestAsset_Label(t *testing.T) {
	assert.Equal(t, "abcd-1234", Asset{ID: "abcd-1234"}.Label())
	assert.Equal(t, "Weekly Deaths", Asset{ID: "abcd-1234", Name: "Weekly Deaths"}.Label())
}

func TestNewTask_PathComputation(t *testing.T) {
	asset := Asset{ID: "abcd-1234", Kind: KindTable}
	task := NewTask(asset, filepath.Join("data", "cdc"))
	assert.Equal(t, filepath.Join("data", "cdc", "abcd-1234.csv"), task.Path)
	assert.Equal(t, asset, task.Asset)
}

func TestNewTask_LongFileNameIsShortened(t *testing.T) {
	asset := Asset{ID: "abcd-1234", Kind: KindBlob, BlobFilename: strings.Repeat("x", 300) + ".pdf"}
	task := NewTask(asset, "/data")

	assert.Less(t, len(task.Path), 260)
	assert.Equal(t, ".pdf", filepath.Ext(task.Path))
	assert.Equal(t, "/data", filepath.Dir(task.Path))
}

func TestAssetKind_String(t *testing.T) {
	tests := []struct {
		kind AssetKind
		want string
	}{
		{KindTable, "table"},
		{KindBlob, "blob"},
		{KindUnsupported, "unsupported"},
		{AssetKind(42), "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestJoinPath_KeepsSuffixWhenShortening(t *testing.T) {
	dir := "/" + strings.Repeat("d", 250)
	name := "report.pdf"

	plain := JoinPath(dir, name, "")
	first := JoinPath(dir, name, "_aaaa-1111")
	second := JoinPath(dir, name, "_aaaa-1111_2")

	for _, p := range []string{plain, first, second} {
		assert.Less(t, len(p), MaxPath, p)
		assert.Equal(t, ".pdf", filepath.Ext(p))
		assert.Equal(t, dir, filepath.Dir(p))
	}
	assert.True(t, strings.HasSuffix(first, "_aaaa-1111.pdf"), first)
	assert.True(t, strings.HasSuffix(second, "_aaaa-1111_2.pdf"), second)
	assert.NotEqual(t, plain, first)
	assert.NotEqual(t, first, second)
}

func TestJoinPath_DoesNotSplitRunes(t *testing.T) {
	name := strings.Repeat("é", 200) + ".csv"
	p := JoinPath("/data", name, "_x")

	assert.Less(t, len(p), MaxPath)
	assert.True(t, utf8.ValidString(p))
	assert.True(t, strings.HasSuffix(p, "_x.csv"))
}

func TestResult_ZeroValueIsFailure(t *testing.T) {
	var r Result
	assert.False(t, r.Succeeded())
	assert.Equal(t, "failure", r.Outcome.String())
}
