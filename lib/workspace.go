package lib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	vlib "github.com/mcuadros/go-version"
)

/*
	Normalize expands a path to an absolute, cleaned form.
*/
func Normalize(path string) (string, error) {
	return filepath.Abs(filepath.Clean(path))
}

func Exists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	} else if os.IsNotExist(err) {
		return false
	}

	return true
}

/*
	return an encoded object as bytes
*/
func Marshal(v interface{}) ([]byte, error) {
	b := new(bytes.Buffer)
	err := gob.NewEncoder(b).Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

/*
	return a decoded object from bytes
*/
func Unmarshal(data []byte, v interface{}) error {
	b := bytes.NewBuffer(data)
	return gob.NewDecoder(b).Decode(v)
}

/*
	DefaultWorkspace returns the directory holding the part library, the
	datasheet cache and saved analyses, creating it if needed.
*/
func DefaultWorkspace() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(root, "elektros")
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}

	return dir, nil
}

func DatasheetDir(workspace string) string {
	return filepath.Join(workspace, "datasheets")
}

/*
	LatestSnapshot returns the highest version-named subdirectory of dir.
	Part catalogs are dropped under directories named by release version;
	imports pick the newest.
*/
func LatestSnapshot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	latest := ""
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		version := e.Name()
		if latest == "" || vlib.CompareSimple(latest, version) == -1 {
			latest = version
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no snapshots found in %s", dir)
	}

	return filepath.Join(dir, latest), nil
}
