package auth

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields the directory reads from an access token issued by
// the external auth service.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	JTI       string
	ExpiresAt time.Time
}

// Verifier checks RS256 access tokens against the auth service's public key.
// The directory never signs tokens.
type Verifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

func NewVerifier(publicPath, issuer string) (*Verifier, error) {
	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return NewVerifierFromKey(pubKey, issuer), nil
}

func NewVerifierFromKey(pub *rsa.PublicKey, issuer string) *Verifier {
	return &Verifier{publicKey: pub, issuer: issuer}
}

// Verify checks signature, expiry and, when configured, the issuer.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(5 * time.Second),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	c := &Claims{}
	c.Subject, _ = mc["sub"].(string)
	c.Name, _ = mc["name"].(string)
	c.Email, _ = mc["email"].(string)
	c.JTI, _ = mc["jti"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if c.JTI == "" {
		c.JTI = HashToken(tokenStr)
	}
	return c, nil
}

// HashToken produces SHA256 hex of the token. Tokens without a jti are
// revoked under their hash.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
