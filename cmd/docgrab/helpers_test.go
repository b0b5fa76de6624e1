package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/docgrab"
	main "github.com/fwojciec/docgrab/cmd/docgrab"
)

func writeFile(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:         context.Background(),
		Stdout:      stdout,
		Stderr:      stderr,
		Preferences: docgrab.DefaultPreferences(),
	}, stdout, stderr
}

// sizer reports fixed sizes by URL.
type sizer map[string]int64

func (s sizer) Size(_ context.Context, url string) (int64, error) {
	if n, ok := s[url]; ok {
		return n, nil
	}
	return 0, docgrab.Errorf(docgrab.ENOTFOUND, "size of %s not reported", url)
}
