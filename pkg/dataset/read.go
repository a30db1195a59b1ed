package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// ReadJSON decodes a dataset object or a bare array of records from r.
//
// Numbers are decoded as json.Number so integers keep their exact text
// when used as categories. Field names are defaulted but the records are
// not validated; call [Dataset.Validate] or [Dataset.Steps].
func ReadJSON(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "empty input")
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	var ds Dataset
	if first == '[' {
		err = dec.Decode(&ds.Data)
	} else {
		err = dec.Decode(&ds)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	ds.SetDefaults()
	return &ds, nil
}

// ReadTOML decodes a TOML dataset from r.
func ReadTOML(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	ds.SetDefaults()
	return &ds, nil
}

// Read decodes a dataset in the given format ("json" or "toml").
func Read(r io.Reader, format string) (*Dataset, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return ReadJSON(r)
	case "toml":
		return ReadTOML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
}

// FormatOf returns the dataset format for a file path based on its extension.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".toml":
		return "toml", nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .json or .toml)", ext)
	}
}

// Import reads the dataset file at path, choosing the decoder by extension.
func Import(path string) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// WriteJSON writes ds as indented JSON.
func WriteJSON(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
