package alembic

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

// DefaultSearchPaths are the locations tried, in order, when no explicit
// path is given and pyproject.toml names no script location.
var DefaultSearchPaths = []string{
	"alembic/versions",
	"versions",
	"src/backend/alembic/versions",
	"backend/alembic/versions",
}

// Locate resolves the versions directory to scan. A non-empty path must name
// a directory and wins outright. Otherwise a pyproject.toml in the current
// directory may point at the Alembic script location, whose versions/
// subdirectory is used when it exists. Failing that, the first existing
// searchPaths entry is returned.
func Locate(path string, searchPaths []string) (string, error) {
	if path != "" {
		if !isDir(path) {
			return "", errors.New(errors.ErrCodeNotADirectory, "%s is not a directory", path)
		}
		return path, nil
	}

	if dir := scriptLocation("."); dir != "" && isDir(dir) {
		return dir, nil
	}

	for _, p := range searchPaths {
		if isDir(p) {
			return p, nil
		}
	}

	return "", errors.New(errors.ErrCodeDirNotFound, "could not find versions directory in common locations")
}

// scriptLocation reads the [tool.alembic] script_location from a
// pyproject.toml in dir, returning the derived versions directory or "".
func scriptLocation(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return ""
	}
	var pyproject struct {
		Tool struct {
			Alembic struct {
				ScriptLocation string `toml:"script_location"`
			} `toml:"alembic"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return ""
	}
	if pyproject.Tool.Alembic.ScriptLocation == "" {
		return ""
	}
	return filepath.Join(pyproject.Tool.Alembic.ScriptLocation, "versions")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
