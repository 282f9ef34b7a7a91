package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math/big"

	"github.com/nfnt/resize"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)[:saltSize]
}

func RandInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}
	return n.Int64()
}

// Thumbnail decodes an image (JPEG, PNG or GIF) and returns a JPEG thumbnail
// that fits within maxSize x maxSize, preserving the aspect ratio.
func Thumbnail(r io.Reader, maxSize uint) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	thumb := resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
	buf := bytes.Buffer{}
	if err = jpeg.Encode(&buf, thumb, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
