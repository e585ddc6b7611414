//go:build ignore

// Download fetches the bidi conformance test files of the UCD into
// directory ucd. Run it with
//
//	go generate ./internal/testdata
package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Unicode version of the bidi tables in golang.org/x/text v0.14.0
const ucdURL = "https://www.unicode.org/Public/15.0.0/ucd/UCD.zip"

var bidiTestFiles = map[string]bool{
	"BidiTest.txt":          true,
	"BidiCharacterTest.txt": true,
}

func main() {
	if err := downloadBidiTests(ucdURL, "ucd"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to download: %v\n", err)
		os.Exit(1)
	}
}

func downloadBidiTests(url, dir string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("GET failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read: %w", err)
	}
	z, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}
	found := 0
	for _, file := range z.File {
		if file.FileInfo().IsDir() || !bidiTestFiles[file.Name] {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open %v: %w", file.Name, err)
		}
		if err := writeFile(filepath.Join(dir, file.Name), rc); err != nil {
			return fmt.Errorf("failed to write %v: %w", file.Name, err)
		}
		found++
	}
	if found != len(bidiTestFiles) {
		return fmt.Errorf("found %d of %d bidi test files in %s", found, len(bidiTestFiles), url)
	}
	return nil
}

func writeFile(path string, rc io.ReadCloser) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	defer func() { _ = rc.Close() }()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %v: %w", path, err)
	}
	if _, err = io.Copy(f, rc); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to copy %v: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to write %v: %w", path, err)
	}
	return nil
}
