package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/welschmorgan/mocker/pkg/codec"
)

// Common errors for configuration loading and saving.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrEmptyFile    = errors.New("configuration file is empty")
	ErrFileExists   = errors.New("configuration file already exists")
)

// Load reads and realizes a configuration file. The codec is detected
// from the file extension; an extension no codec claims is an error
// naming the available formats.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Config{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	c, err := codecFor(path)
	if err != nil {
		return Config{}, err
	}
	doc, err := c.Decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg, err := parse(doc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a configuration file using a write-then-rename so a crash
// never leaves a truncated file behind. When overwrite is false an
// existing file is an error; `mocker init` relies on this.
func Save(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}

	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := c.Encode(cfg.document())
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func codecFor(path string) (codec.Codec, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return codec.Default(), nil
	}
	c, err := codec.ByExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w (available: %v)", path, err, codec.Names())
	}
	return c, nil
}
