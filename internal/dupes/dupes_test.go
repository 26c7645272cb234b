package dupes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_ThreeIdenticalOneDistinct(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.pdf", "same bytes")
	write(t, dir, "b.pdf", "same bytes")
	write(t, dir, "c.pdf", "same bytes")
	write(t, dir, "d.pdf", "different")

	pairs, err := Find(context.Background(), dir, Options{})
	require.NoError(t, err)

	require.Len(t, pairs, 2)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), pairs[0].First)
	assert.Equal(t, filepath.Join(dir, "b.pdf"), pairs[0].Duplicate)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), pairs[1].First)
	assert.Equal(t, filepath.Join(dir, "c.pdf"), pairs[1].Duplicate)
	assert.Equal(t, int64(len("same bytes")), pairs[0].Size)
}

func TestFind_IgnoresNamesAndExtensionsByDefault(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "receipt.pdf", "body")
	write(t, dir, "copy of receipt.txt", "body")

	pairs, err := Find(context.Background(), dir, Options{})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	// "copy of receipt.txt" sorts before "receipt.pdf".
	assert.Equal(t, filepath.Join(dir, "copy of receipt.txt"), pairs[0].First)
}

func TestFind_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.pdf", "body")
	write(t, dir, "b.PDF", "body")
	write(t, dir, "c.txt", "body")

	pairs, err := Find(context.Background(), dir, Options{Extensions: []string{".pdf"}})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(dir, "b.PDF"), pairs[0].Duplicate)
}

func TestFind_SkipsDirectoriesAndIsNotRecursive(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.pdf", "body")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	write(t, sub, "a.pdf", "body")

	pairs, err := Find(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestFind_EmptyFilesAreDuplicates(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a", "")
	write(t, dir, "b", "")

	pairs, err := Find(context.Background(), dir, Options{})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Zero(t, pairs[0].Size)
}

func TestFind_Verify(t *testing.T) {
	dir := t.TempDir()
	big := strings.Repeat("0123456789", 20000) // spans several compare chunks
	write(t, dir, "a.pdf", big)
	write(t, dir, "b.pdf", big)
	write(t, dir, "c.pdf", big+"!")

	pairs, err := Find(context.Background(), dir, Options{Verify: true})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(dir, "b.pdf"), pairs[0].Duplicate)
}

func TestFind_VerifyKeepsEachContentGroup(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "y")
	write(t, dir, "b.txt", "x")
	write(t, dir, "c.txt", "x")
	orig := fingerprint
	fingerprint = func(path string) (Fingerprint, int64, error) {
		_, size, err := FingerprintFile(path)
		return Fingerprint{}, size, err
	}
	t.Cleanup(func() { fingerprint = orig })

	pairs, err := Find(context.Background(), dir, Options{Verify: true})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{First: filepath.Join(dir, "b.txt"), Duplicate: filepath.Join(dir, "c.txt"), Size: 1}}, pairs)

	pairs, err = Find(context.Background(), dir, Options{})
	require.NoError(t, err)
	assert.Len(t, pairs, 2, "without Verify equal digests are trusted")
}

func TestFind_UnreadableFileAborts(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	dir := t.TempDir()
	write(t, dir, "a.pdf", "body")
	write(t, dir, "b.pdf", "body")
	locked := filepath.Join(dir, "c.pdf")
	write(t, dir, "c.pdf", "body")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	pairs, err := Find(context.Background(), dir, Options{})
	require.Error(t, err)
	assert.Nil(t, pairs, "no partial report")
	assert.True(t, errors.Is(err, ErrFingerprintIO))
	var fe *FingerprintError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, locked, fe.Path)
}

func TestFind_MissingDir(t *testing.T) {
	_, err := Find(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
}

func TestFind_Canceled(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Find(ctx, dir, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprintFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "abc", "abc")

	fp, n, err := FingerprintFile(filepath.Join(dir, "abc"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", fp.String())
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}
