// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("quotes-scraper")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return v
}

func TestReadConfig_MissingDefaultFileIsSilent(t *testing.T) {
	var out bytes.Buffer
	readConfig(searchViper(t.TempDir()), &out)
	assert.Empty(t, out.String())
}

func TestReadConfig_MalformedDefaultFileWarns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes-scraper.yaml"), []byte("max_pages: [1, 2\nbios: :"), 0o644))

	var out bytes.Buffer
	readConfig(searchViper(dir), &out)
	assert.Contains(t, out.String(), "warning: reading config file:")
}

func TestReadConfig_LoadsValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotes-scraper.yaml"), []byte("max_pages: 7\ntag_format: list\n"), 0o644))

	v := searchViper(dir)
	var out bytes.Buffer
	readConfig(v, &out)
	assert.Empty(t, out.String())
	assert.Equal(t, 7, v.GetInt("max_pages"))
	assert.Equal(t, "list", v.GetString("tag_format"))
}

func TestReadConfig_MissingExplicitFileWarns(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))

	var out bytes.Buffer
	readConfig(v, &out)
	assert.Contains(t, out.String(), "warning: reading config file:")
}
