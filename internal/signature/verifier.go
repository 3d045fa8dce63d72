package signature

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/stellar/go/strkey"
	"go.uber.org/zap"
	"golang.org/x/crypto/ed25519"
)

const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
)

// Verifier checks webhook deliveries. Without a configured public key it
// accepts everything: that mode exists for local development only and is
// announced with a warning at construction.
type Verifier struct {
	key ed25519.PublicKey
	log *zap.Logger
}

// NewVerifier takes the notifier's Stellar account address (G...).
func NewVerifier(address string, log *zap.Logger) (*Verifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := &Verifier{log: log.With(zap.String("component", "signature.verifier"))}
	if address == "" {
		v.log.Warn("webhook signature verification disabled: no public key configured")
		return v, nil
	}
	key, err := decodeKey(strkey.VersionByteAccountID, address, ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	v.key = key
	return v, nil
}

func (v *Verifier) Insecure() bool { return v.key == nil }

// Verify checks the signature over "<timestamp>." + body, where body is the
// exact byte sequence received.
func (v *Verifier) Verify(h http.Header, body []byte) bool {
	if v.Insecure() {
		return true
	}
	sigHex := strings.TrimSpace(h.Get(HeaderSignature))
	ts := strings.TrimSpace(h.Get(HeaderTimestamp))
	if sigHex == "" || ts == "" {
		v.log.Warn("webhook rejected: missing signature headers",
			zap.Bool("has_signature", sigHex != ""),
			zap.Bool("has_timestamp", ts != ""),
		)
		return false
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		v.log.Warn("webhook rejected: malformed signature", zap.Error(err))
		return false
	}
	if !ed25519.Verify(v.key, webhookMessage(ts, body), sig) {
		v.log.Warn("webhook rejected: signature mismatch", zap.String("timestamp", ts))
		return false
	}
	return true
}

// SignWebhook produces the X-Signature value for a delivery, as the notifier does.
func SignWebhook(key ed25519.PrivateKey, timestamp string, body []byte) string {
	return hex.EncodeToString(ed25519.Sign(key, webhookMessage(timestamp, body)))
}

func webhookMessage(ts string, body []byte) []byte {
	msg := make([]byte, 0, len(ts)+1+len(body))
	msg = append(msg, ts...)
	msg = append(msg, '.')
	return append(msg, body...)
}
