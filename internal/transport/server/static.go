package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Static serves files under dir, with index.html for directories.
// Dotfiles such as .env are never served and directories without an
// index.html are not listed.
func Static(dir string) http.Handler {
	return http.FileServer(staticFileSystem{http.Dir(dir)})
}

type staticFileSystem struct {
	http.FileSystem
}

func (fsys staticFileSystem) Open(name string) (http.File, error) {
	if containsDotFile(name) {
		return nil, fs.ErrPermission
	}

	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := fsys.FileSystem.Open(path.Join(name, "index.html"))
		if err != nil {
			f.Close()
			return nil, fs.ErrNotExist
		}
		index.Close()
	}

	return f, nil
}

func containsDotFile(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
