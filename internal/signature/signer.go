package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stellar/go/strkey"
	"golang.org/x/crypto/ed25519"
)

var (
	ErrBadKey       = errors.New("signature: malformed key")
	ErrBadKeyLength = errors.New("signature: wrong key length")
)

const (
	HeaderAuthorization = "Authorization"
	authScheme          = "ed25519"
)

// Signer produces the Authorization header expected by the notifier.
// A Signer built from an empty seed is disabled and signs nothing.
type Signer struct {
	key ed25519.PrivateKey
	pub string
	now func() time.Time
}

// NewSigner takes the bot's Stellar secret seed (S...).
func NewSigner(secret string) (*Signer, error) {
	s := &Signer{now: time.Now}
	if secret == "" {
		return s, nil
	}
	seed, err := decodeKey(strkey.VersionByteSeed, secret, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	s.key = ed25519.NewKeyFromSeed(seed)
	s.pub, err = strkey.Encode(strkey.VersionByteAccountID, s.key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	return s, nil
}

func (s *Signer) WithClock(now func() time.Time) *Signer {
	if now == nil {
		return s
	}
	cp := *s
	cp.now = now
	return &cp
}

func (s *Signer) Enabled() bool { return s != nil && s.key != nil }

// PublicKey is the signer's account address (G...), empty when disabled.
func (s *Signer) PublicKey() string {
	if s == nil {
		return ""
	}
	return s.pub
}

// Nonce is the current time in milliseconds.
func (s *Signer) Nonce() int64 {
	return s.now().UnixMilli()
}

// SignRequest appends a nonce when params carry none and returns the final
// params together with the auth headers. When disabled the params are
// returned untouched with no headers.
func (s *Signer) SignRequest(params []Param) ([]Param, http.Header) {
	h := http.Header{}
	if !s.Enabled() {
		return params, h
	}
	out := make([]Param, len(params), len(params)+1)
	copy(out, params)
	if !hasKey(out, "nonce") {
		out = append(out, Param{Key: "nonce", Value: s.Nonce()})
	}
	sig := ed25519.Sign(s.key, []byte(EncodeParams(out)))
	h.Set(HeaderAuthorization, authScheme+" "+s.pub+"."+hex.EncodeToString(sig))
	return out, h
}

// VerifyAuthorization checks an Authorization header produced by SignRequest
// against the same ordered params.
func VerifyAuthorization(header string, params []Param) bool {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || scheme != authScheme {
		return false
	}
	address, sigHex, ok := strings.Cut(rest, ".")
	if !ok {
		return false
	}
	pub, err := decodeKey(strkey.VersionByteAccountID, address, ed25519.PublicKeySize)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, []byte(EncodeParams(params)), sig)
}

func decodeKey(version strkey.VersionByte, s string, size int) ([]byte, error) {
	b, err := strkey.Decode(version, strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	if len(b) != size {
		return nil, ErrBadKeyLength
	}
	return b, nil
}
