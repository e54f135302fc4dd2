package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteSource writes the source and its manifest to outputDir.
func WriteSource(src *GeneratedSource, outputDir string) ([]string, error) {
	files, err := src.Files()
	if err != nil {
		return nil, err
	}

	if err := WriteFiles(files, outputDir); err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(outputDir, f.Filename)
	}

	return paths, nil
}

// WriteFiles writes all generated files to the output directory, creating it
// if needed. Each file is written to a temporary name and renamed into place,
// so a build watching the directory never sees a half-written file.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		if err := writeAtomic(filepath.Join(outputDir, file.Filename), file.Content); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}

func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	// No-op once renamed.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
