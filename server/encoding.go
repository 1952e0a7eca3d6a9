package server

import (
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported content encoding")
	ErrBodyTooLarge        = errors.New("decoded body too large")
)

func newEncodedReader(enc string, r io.ReadCloser) (io.ReadCloser, error) {
	switch enc {
	case "", "identity":
		return r, nil
	case "gzip":
		return gzip.NewReader(r)
	case "deflate":
		return zlib.NewReader(r)
	case "compress", "br":
		return nil, fmt.Errorf("%w %q", ErrUnsupportedEncoding, enc)
	default:
		slog.Warn("unknown encoding", "enc", enc)
		return r, nil
	}
}

// readAllEncoded undoes enc and reads at most limit decoded bytes. Bodies that
// decode to more than limit bytes fail with ErrBodyTooLarge.
func readAllEncoded(enc string, r io.ReadCloser, limit int64) ([]byte, error) {
	d, err := newEncodedReader(enc, r)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	bs, err := io.ReadAll(io.LimitReader(d, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(bs)) > limit {
		_ = d.Close()
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}

	if err := d.Close(); err != nil {
		slog.Warn("could not close reader", "err", err)
	}

	return bs, nil
}
