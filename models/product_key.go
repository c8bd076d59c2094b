package models

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
)

// ProductKeyPrefix starts every generated product key.
const ProductKeyPrefix = "PROD-"

var keySource io.Reader = rand.Reader

// NewProductKey returns PROD- followed by 4 random bytes in uppercase hex.
func NewProductKey() string {
	b := make([]byte, 4)
	if _, err := io.ReadFull(keySource, b); err != nil {
		panic("models: reading random product key: " + err.Error())
	}
	return ProductKeyPrefix + strings.ToUpper(hex.EncodeToString(b))
}
