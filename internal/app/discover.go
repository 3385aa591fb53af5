package app

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
)

// discover turns the argument list into the files to tail. Explicit files
// are taken as-is, directories are walked recursively for files named
// logName. Unusable arguments get a warning; only an empty result is fatal.
func discover(paths []string, logName string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			log.Printf("WARNING: skipping %s: %v", path, err)
			continue
		}
		switch {
		case info.IsDir():
			files = append(files, walkDir(path, logName)...)
		case info.Mode().IsRegular():
			files = append(files, path)
		default:
			log.Printf("WARNING: skipping %s: not a regular file", path)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no usable log files found")
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func walkDir(dir, logName string) []string {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("WARNING: skipping %s: %v", path, err)
			return nil
		}
		if !d.IsDir() && d.Name() == logName {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		log.Printf("WARNING: walking %s: %v", dir, err)
	}
	return found
}
