// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package itemsource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fsys, f, []byte("<svg/>"), 0o644))
	}

	return fsys
}

func collect(t *testing.T, src Source, cancelled func() bool) ([]Item, error) {
	t.Helper()

	var items []Item

	for item, err := range src.Items(cancelled) {
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

func paths(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Kind.String()+":"+filepath.ToSlash(i.Rel))
	}

	return out
}

func TestFilter_MatchExtension(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		file   string
		want   bool
	}{
		{name: "svg", file: "a.svg", want: true},
		{name: "upper case", file: "A.SVG", want: true},
		{name: "svgz", file: "a.SvgZ", want: true},
		{name: "png rejected", file: "a.png", want: false},
		{name: "no extension", file: "svg", want: false},
		{name: "custom without dot", filter: Filter{Extensions: []string{"png"}}, file: "a.PNG", want: true},
		{name: "custom excludes default", filter: Filter{Extensions: []string{".png"}}, file: "a.svg", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.MatchExtension(tt.file))
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/x/.git", nil))
	assert.True(t, IsHidden(".hidden.svg", nil))
	assert.False(t, IsHidden("/x/visible.svg", nil))
	assert.False(t, IsHidden(".", nil))
}

func TestItem_OutputDirs(t *testing.T) {
	file := Item{Kind: KindFile, Path: filepath.Join("src", "sub", "a.svg"), Rel: filepath.Join("sub", "a.svg")}
	assert.Equal(t, filepath.Join("src", "sub"), file.OutputDir(""))
	assert.Equal(t, filepath.Join("out", "sub"), file.OutputDir("out"))

	dir := Item{Kind: KindDirectory, Path: filepath.Join("src", "sub"), Rel: "sub"}
	assert.Equal(t, filepath.Join("src", "sub"), dir.MirrorDir(""))
	assert.Equal(t, filepath.Join("out", "sub"), dir.MirrorDir("out"))
}

func TestFile_Validate(t *testing.T) {
	fsys := memTree(t, "/in/a.svg")

	assert.NoError(t, NewFile(fsys, "/in/a.svg").Validate())
	assert.ErrorIs(t, NewFile(fsys, "/in/missing.svg").Validate(), ErrNotFound)
	assert.ErrorIs(t, NewFile(fsys, "/in").Validate(), ErrNotFile)
	assert.ErrorIs(t, NewFile(fsys, "").Validate(), ErrEmptyPath)
}

func TestFile_Items(t *testing.T) {
	src := NewFile(memTree(t, "/in/a.svg"), "/in/a.svg")

	items, err := collect(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"file:a.svg"}, paths(items))
	assert.Equal(t, "/in", filepath.ToSlash(src.DefaultOutputDir()))

	_, err = collect(t, src, func() bool { return true })
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestList_Validate(t *testing.T) {
	fsys := memTree(t, "/in/a.svg", "/in/b.svg")

	assert.NoError(t, NewList(fsys, "/in/a.svg", "/in/b.svg").Validate())
	assert.ErrorIs(t, NewList(fsys).Validate(), ErrEmptyList)

	err := NewList(fsys, "/in/a.svg", "/in/x.svg", "/in", "/in/y.svg").Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFile)
}

func TestList_ItemsKeepOrder(t *testing.T) {
	fsys := memTree(t, "/in/b.svg", "/other/a.svg")
	src := NewList(fsys, "/in/b.svg", "/other/a.svg")

	items, err := collect(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"file:b.svg", "file:a.svg"}, paths(items))
	assert.Empty(t, src.DefaultOutputDir())
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, "2 files", src.String())
}

func TestTree_Validate(t *testing.T) {
	fsys := memTree(t, "/in/a.svg")

	assert.NoError(t, NewTree(fsys, "/in", false, Filter{}).Validate())
	assert.ErrorIs(t, NewTree(fsys, "/nope", false, Filter{}).Validate(), ErrNotFound)
	assert.ErrorIs(t, NewTree(fsys, "/in/a.svg", false, Filter{}).Validate(), ErrNotDirectory)
}

func TestTree_Items(t *testing.T) {
	fsys := memTree(t,
		"/r/b.svg",
		"/r/a.SVG",
		"/r/notes.txt",
		"/r/.hidden.svg",
		"/r/sub/c.svgz",
		"/r/sub/deeper/d.svg",
		"/r/.git/e.svg",
	)

	tests := []struct {
		name      string
		recursive bool
		hidden    bool
		want      []string
	}{
		{
			name: "flat",
			want: []string{"file:a.SVG", "file:b.svg"},
		},
		{
			name:      "recursive pre-order, files before subdirectories",
			recursive: true,
			want: []string{
				"file:a.SVG", "file:b.svg",
				"directory:sub", "file:sub/c.svgz",
				"directory:sub/deeper", "file:sub/deeper/d.svg",
			},
		},
		{
			name:      "recursive with hidden",
			recursive: true,
			hidden:    true,
			want: []string{
				"file:.hidden.svg", "file:a.SVG", "file:b.svg",
				"directory:.git", "file:.git/e.svg",
				"directory:sub", "file:sub/c.svgz",
				"directory:sub/deeper", "file:sub/deeper/d.svg",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewTree(fsys, "/r", tt.recursive, Filter{IncludeHidden: tt.hidden})
			items, err := collect(t, src, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(items))
		})
	}
}

func TestTree_CancelBetweenLevels(t *testing.T) {
	fsys := memTree(t, "/r/a.svg", "/r/sub/b.svg")
	src := NewTree(fsys, "/r", true, Filter{})

	var (
		cancel bool
		seen   []string
	)

	for item, err := range src.Items(func() bool { return cancel }) {
		if err != nil {
			require.ErrorIs(t, err, ErrCancelled)
			break
		}

		seen = append(seen, filepath.ToSlash(item.Rel))
		cancel = item.Kind == KindDirectory
	}

	assert.Equal(t, []string{"a.svg", "sub"}, seen)
}

func TestTree_StopsWhenConsumerBreaks(t *testing.T) {
	fsys := memTree(t, "/r/a.svg", "/r/b.svg", "/r/c.svg")
	src := NewTree(fsys, "/r", false, Filter{})

	n := 0

	for range src.Items(nil) {
		n++
		if n == 2 {
			break
		}
	}

	assert.Equal(t, 2, n)
}

func TestTree_SkipsExcludedDirectory(t *testing.T) {
	fsys := memTree(t, "/src/a.svg", "/src/out/a.svgz", "/src/sub/b.svg", "/src/sub/out/c.svg")
	src := NewTree(fsys, "/src", true, Filter{Exclude: []string{"/src/out/"}})

	items, err := collect(t, src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"file:a.svg",
		"directory:sub", "file:sub/b.svg",
		"directory:sub/out", "file:sub/out/c.svg",
	}, paths(items))
}

func TestNestedDir(t *testing.T) {
	tests := []struct {
		name   string
		root   string
		dir    string
		want   string
		nested bool
	}{
		{name: "child", root: "/src", dir: "/src/out", want: "/src/out", nested: true},
		{name: "grandchild", root: "/src", dir: "/src/a/out/", want: "/src/a/out", nested: true},
		{name: "root itself", root: "/src", dir: "/src/"},
		{name: "sibling", root: "/src", dir: "/dist"},
		{name: "sibling with shared prefix", root: "/src", dir: "/src-out"},
		{name: "parent", root: "/src/icons", dir: "/src"},
		{name: "no output", root: "/src", dir: ""},
		{name: "relative child", root: "src", dir: "src/out", want: filepath.Join("src", "out"), nested: true},
		{name: "dot-dot name", root: "/src", dir: "/src/..out", want: "/src/..out", nested: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NestedDir(filepath.FromSlash(tt.root), filepath.FromSlash(tt.dir))
			assert.Equal(t, tt.nested, ok)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

var errUnreadable = errors.New("unreadable")

// brokenDirFs fails to open one directory.
type brokenDirFs struct {
	afero.Fs
	dir string
}

func (b brokenDirFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == b.dir {
		return nil, &os.PathError{Op: "open", Path: name, Err: errUnreadable}
	}

	return b.Fs.Open(name)
}

func TestTree_ListFailureIsYielded(t *testing.T) {
	fsys := brokenDirFs{Fs: memTree(t, "/r/a.svg", "/r/sub/b.svg", "/r/zz/c.svg"), dir: "/r/sub"}
	src := NewTree(fsys, "/r", true, Filter{})

	items, err := collect(t, src, nil)
	require.ErrorIs(t, err, ErrListDirectory)
	require.ErrorIs(t, err, errUnreadable)
	assert.Contains(t, err.Error(), "/r/sub")
	assert.Equal(t, []string{"file:a.svg", "directory:sub"}, paths(items))
}

func TestTree_RootListFailure(t *testing.T) {
	fsys := brokenDirFs{Fs: memTree(t, "/r/a.svg"), dir: "/r"}
	src := NewTree(fsys, "/r", false, Filter{})

	require.NoError(t, src.Validate())

	items, err := collect(t, src, nil)
	require.ErrorIs(t, err, ErrListDirectory)
	assert.Empty(t, items)
}

func TestList_DistinctNames(t *testing.T) {
	fsys := memTree(t, "/a/x.svg", "/b/x.svg", "/c/X.SVG", "/c/y.svg")

	assert.NoError(t, NewList(fsys, "/a/x.svg", "/b/x.svg").Validate())

	err := NewList(fsys, "/a/x.svg", "/c/y.svg", "/b/x.svg", "/c/X.SVG").DistinctNames().Validate()
	require.ErrorIs(t, err, ErrDuplicateName)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "/a/x.svg and /b/x.svg")

	assert.NoError(t, NewList(fsys, "/a/x.svg", "/c/y.svg").DistinctNames().Validate())
}

func TestNilFsUsesPackageFS(t *testing.T) {
	fsys := memTree(t, "/stubbed/a.svg")
	stubs := gostub.Stub(&FS, fsys)
	defer stubs.Reset()

	src := NewTree(nil, "/stubbed", false, Filter{})
	require.NoError(t, src.Validate())
	assert.Same(t, fsys, src.Filesystem())
}
