package lifecycle

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
)

// Codec names accepted by NewCodec.
const (
	CodecBase64 = "base64"
	CodecBcrypt = "bcrypt"
)

// Base64Codec stores the standard base64 encoding of the password's Latin-1
// code units, the scheme browsers implement as btoa. Passwords with a rune
// above U+00FF have no Latin-1 form and are encoded from their UTF-8 bytes.
//
// WARNING: this is a reversible encoding, not a hash. Anyone who can read the
// stored record can recover the password. It exists so records written by
// earlier installs keep verifying; select BcryptCodec for new deployments.
type Base64Codec struct{}

func (Base64Codec) Name() string { return CodecBase64 }

func (Base64Codec) Encode(password string) (string, error) {
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(password))
	if err != nil {
		raw = []byte(password)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Verify never accepts an empty hash, which only the empty password encodes to.
func (c Base64Codec) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	enc, _ := c.Encode(password)
	return subtle.ConstantTimeCompare([]byte(enc), []byte(hash)) == 1
}

// BcryptCodec is a salted, slow hash. Passwords longer than 72 bytes are
// rejected by Encode.
type BcryptCodec struct {
	Cost int // 0 means bcrypt.DefaultCost
}

func (BcryptCodec) Name() string { return CodecBcrypt }

func (c BcryptCodec) Encode(password string) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptCodec) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewCodec returns the codec registered under name.
func NewCodec(name string) (PasswordCodec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecBase64:
		return Base64Codec{}, nil
	case CodecBcrypt:
		return BcryptCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported password codec: %q", name)
	}
}
