package bench

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/ulikunitz/xz"
)

// "xz" is a general-purpose baseline against BX0/BX2: ulikunitz's pure-Go
// LZMA2-based xz container, which (unlike retrolz) also spends bits on
// repeat-offset history deeper than one slot and a full range coder.
func init() {
	RegisterEncoder("xz", func(input []byte) ([]byte, error) {
		var buf bytes.Buffer
		zw, err := xz.NewWriter(&buf)
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
	RegisterDecoder("xz", func(data []byte, sizeHint int) ([]byte, error) {
		zr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		out, err := ioutil.ReadAll(io.LimitReader(zr, int64(sizeHint)+1))
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}
