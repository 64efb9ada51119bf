package reader

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/David-Botos/catalog-cleaner/pkg/model"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// DetectType attempts to detect the file format and compression types by looking at the
// file path extensions.
func DetectType(name string) (string, string) {
	_, base := path.Split(name)

	// Split up extensions.
	exts := strings.Split(base, ".")[1:]

	var (
		compression string
		format      string
	)

	for _, ext := range exts {
		switch strings.ToLower(ext) {
		case "gz", "gzip":
			compression = "gzip"

		case "bz2", "bzip2":
			compression = "bzip2"

		case "csv":
			format = "csv"
		}
	}

	return format, compression
}

// Reader encapsulates an input file with optional decompression.
type Reader struct {
	Name        string
	Compression string

	reader io.Reader
	file   *os.File
}

// Read implements the io.Reader interface.
func (r *Reader) Read(buf []byte) (int, error) {
	return r.reader.Read(buf)
}

// Close implements the io.Closer interface.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Open a reader by name with optional compression. When compr is empty it is
// detected from the file extension. A missing file yields model.ErrInputNotFound.
func Open(name, compr string) (*Reader, error) {
	if compr == "" {
		_, compr = DetectType(name)
	}

	// Validate compression method before working with files.
	switch compr {
	case "bzip2", "gzip", "":
	default:
		return nil, fmt.Errorf("unknown compression type %s", compr)
	}

	file, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", model.ErrInputNotFound, name)
		}
		return nil, fmt.Errorf("failed to open input %s: %w", name, err)
	}

	r := &Reader{
		Name:        name,
		Compression: compr,
		file:        file,
		reader:      file,
	}

	// Apply the decoder.
	switch compr {
	case "gzip":
		gr, err := gzip.NewReader(r.reader)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", name, err)
		}
		r.reader = gr
	case "bzip2":
		r.reader = bzip2.NewReader(r.reader)
	}

	r.reader = StripBOM(r.reader)

	return r, nil
}

// StripBOM returns a reader that drops a leading UTF-8 byte order mark.
func StripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(bom))
	if err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	return br
}
