// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/spf13/afero"
)

// ErrGetJobFile is returned when a job file cannot be fetched.
var ErrGetJobFile = errors.New("failed to get job file")

const (
	getterSubdirSep = "//"
	getterQuerySep  = "?"
	getterTmpPrefix = "svgbatch-getter-"
)

// remoteJob is a go-getter source directory and the job file inside it.
type remoteJob struct {
	src  string
	file string
}

// resolveRemoteJob decides what go-getter must download for location.
// go-getter fetches directories, so a file location is split into the
// directory that holds it and its name.
// https://github.com/hashicorp/go-getter/issues/98
func resolveRemoteJob(location, pwd string) (remoteJob, error) {
	probe := &getter.Request{Src: location, Pwd: pwd}

	ok, err := getter.Detect(probe, &getter.FileGetter{})
	if err != nil {
		return remoteJob{}, err
	}

	if ok {
		return remoteJob{src: filepath.Dir(location), file: filepath.Base(location)}, nil
	}

	src, file := splitGetterURL(location)
	if src == "" {
		return remoteJob{}, fmt.Errorf("invalid URL format, expected <source>//<path to job file>: %s", location)
	}

	return remoteJob{src: src, file: file}, nil
}

// splitGetterURL splits a go-getter URL whose subdirectory part names a file
// into the URL of the containing directory and the file name. The query string
// stays on the directory URL. It returns empty strings when raw has no
// subdirectory part or the part names a directory.
func splitGetterURL(raw string) (string, string) {
	base, query, _ := strings.Cut(raw, getterQuerySep)

	// One separator belongs to the scheme, the last one starts the subdirectory.
	if strings.Count(base, getterSubdirSep) < 2 {
		return "", ""
	}

	i := strings.LastIndex(base, getterSubdirSep)
	repo, sub := base[:i], base[i+len(getterSubdirSep):]

	if sub == "" || strings.HasSuffix(sub, "/") {
		return "", ""
	}

	src := repo
	if dir := path.Dir(sub); dir != "." {
		src += getterSubdirSep + dir
	}

	if query != "" {
		src += getterQuerySep + query
	}

	return src, path.Base(sub)
}

// Fetch retrieves the job file at location with go-getter and returns its
// file name and content. The download lands in a temporary directory on
// FsFactory's filesystem, which is removed afterwards.
func Fetch(ctx context.Context, location string) (string, []byte, error) {
	if location == "" {
		return "", nil, ErrGetJobFile
	}

	pwd, err := os.Getwd()
	if err != nil {
		return "", nil, errors.Join(ErrGetJobFile, err)
	}

	job, err := resolveRemoteJob(location, pwd)
	if err != nil {
		return "", nil, errors.Join(ErrGetJobFile, err)
	}

	fs := FsFactory()

	tmpDir, err := afero.TempDir(fs, "", getterTmpPrefix)
	if err != nil {
		return "", nil, errors.Join(ErrGetJobFile, err)
	}

	defer fs.RemoveAll(tmpDir) //nolint:errcheck

	client := getter.Client{DisableSymlinks: true}

	res, err := client.Get(ctx, &getter.Request{
		Src:     job.src,
		Dst:     filepath.Join(tmpDir, "job"),
		Pwd:     pwd,
		GetMode: getter.ModeDir,
	})
	if err != nil {
		return "", nil, errors.Join(ErrGetJobFile, err)
	}

	data, err := afero.ReadFile(fs, filepath.Join(res.Dst, job.file))
	if err != nil {
		return "", nil, errors.Join(ErrGetJobFile, err)
	}

	return job.file, data, nil
}
