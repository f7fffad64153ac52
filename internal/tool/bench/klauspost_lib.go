package bench

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/flate"
)

// "kp" is a general-purpose baseline against LZM/EF8/E1ZX: klauspost's
// drop-in, faster DEFLATE implementation, at its default compression level.
func init() {
	RegisterEncoder("kp", func(input []byte) ([]byte, error) {
		var buf bytes.Buffer
		zw, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(input); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	RegisterDecoder("kp", func(data []byte, sizeHint int) ([]byte, error) {
		zr := flate.NewReader(bytes.NewReader(data))
		defer zr.Close()
		out, err := ioutil.ReadAll(io.LimitReader(zr, int64(sizeHint)+1))
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}
