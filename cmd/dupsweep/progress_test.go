package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/types"
)

func TestStatusLine(t *testing.T) {
	var buf bytes.Buffer
	s := newStatusLine(&buf)
	s.interval = time.Hour

	s.update(types.ScanProgress{FoldersScanned: 1, FilesScanned: 1200, BytesHashed: 2048})
	assert.Contains(t, buf.String(), "Scanning: 1 folders, 1,200 files")
	assert.NotContains(t, buf.String(), "cached")

	s.update(types.ScanProgress{FoldersScanned: 2, FilesScanned: 1300})
	assert.Equal(t, 1, strings.Count(buf.String(), "Scanning:"), "redraws are throttled")

	s.update(types.ScanProgress{Done: true})
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"), "line is cleared when done")
}

func TestStatusLine_CacheHits(t *testing.T) {
	var buf bytes.Buffer
	newStatusLine(&buf).update(types.ScanProgress{FilesScanned: 3, CacheHits: 3})
	assert.Contains(t, buf.String(), "3 cached")
}

func TestStatusLine_DoneWithoutDrawWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	newStatusLine(&buf).update(types.ScanProgress{Done: true})
	assert.Empty(t, buf.String())
}

func TestStatusLine_DisabledWhenQuietOrNotTerminal(t *testing.T) {
	assert.Nil(t, (&app{errOut: &bytes.Buffer{}}).statusLine(), "not a terminal")
	assert.Nil(t, (&app{quiet: true}).statusLine())
}
