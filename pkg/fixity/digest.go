// Package fixity gathers, checks and applies checksum corrections for
// registered file DIDs.
package fixity

import (
	"crypto/md5" // #nosec: the service tracks md5 alongside adler32
	"encoding/hex"
	"fmt"
	"hash/adler32"
	"io"

	"github.com/lsst-dm/curation-tools/pkg/model"
)

// Digest streams a reader through md5 and adler32, returning the
// checksum triple registered with the data management service.
func Digest(r io.Reader, bufferSize int) (model.Meta, error) {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	md5Hash := md5.New() // #nosec
	adlerHash := adler32.New()

	buf := make([]byte, bufferSize)
	var size int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			size += int64(n)
			_, _ = md5Hash.Write(buf[:n])
			_, _ = adlerHash.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Meta{}, fmt.Errorf("checksumming: %w", err)
		}
	}
	return model.Meta{
		MD5:     hex.EncodeToString(md5Hash.Sum(nil)),
		Adler32: fmt.Sprintf("%08x", adlerHash.Sum32()),
		Bytes:   size,
	}, nil
}
