// Package testutil holds the small set of test helpers retrolz's own test
// suite and its internal/tool/bench comparison harness share.
package testutil

import (
	"io"
	"io/ioutil"
)

// LoadFile reads the first n bytes of file. A negative n returns the file
// unmodified; a file shorter than n is replicated to fill it out, XORing each
// successive copy with an incrementing mask so the padded result doesn't
// just hand the matcher (spec §4.3) one giant, trivially-long repeat to
// match against — the bench tool (internal/tool/bench) uses this to build
// fixed-size inputs out of a single corpus file at several -sizes.
func LoadFile(file string, n int) ([]byte, error) {
	input, err := ioutil.ReadFile(file)
	switch {
	case err != nil:
		return nil, err
	case n < 0:
		return input, nil
	case len(input) >= n:
		return input[:n], nil
	case len(input) == 0:
		return nil, io.ErrNoProgress // Can't replicate an empty string
	}

	var mask byte
	output := make([]byte, n)
	for i := range output {
		idx := i % len(input)
		output[i] = input[idx] ^ mask
		if idx == len(input)-1 {
			mask++
		}
	}
	return output, nil
}

// MustLoadFile is LoadFile for callers (table-driven test setup) that would
// just immediately t.Fatal on an error anyway.
func MustLoadFile(file string, n int) []byte {
	b, err := LoadFile(file, n)
	if err != nil {
		panic(err)
	}
	return b
}
