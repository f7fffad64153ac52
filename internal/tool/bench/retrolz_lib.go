package bench

import "github.com/dsnet/retrolz"

// retrolzCodec registers one of the five FormatIDs under name, the role
// ds_lib.go plays for the teacher's own flate/bzip2/brotli codecs.
func retrolzCodec(name string, id retrolz.FormatID) {
	RegisterEncoder(name, func(input []byte) ([]byte, error) {
		res, err := retrolz.Compress(input, id, retrolz.Options{})
		if err != nil {
			return nil, err
		}
		return res.Data, nil
	})
	RegisterDecoder(name, func(data []byte, sizeHint int) ([]byte, error) {
		return retrolz.Decompress(data, id, retrolz.Options{}, sizeHint)
	})
}

func init() {
	retrolzCodec("lzm", retrolz.LZM)
	retrolzCodec("ef8", retrolz.EF8)
	retrolzCodec("e1zx", retrolz.E1ZX)
	retrolzCodec("bx0", retrolz.BX0)
	retrolzCodec("bx2", retrolz.BX2)
}
