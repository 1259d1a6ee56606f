package oracle

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ProofClaims binds a decryption result to its request. The oracle signs
// them with its HMAC key.
type ProofClaims struct {
	jwt.RegisteredClaims
	CorrelationID string `json:"cid"`
	Digest        string `json:"digest"`
}

// Digest returns the hex SHA-256 of payload as carried in ProofClaims.
func Digest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SignProof produces the proof the oracle attaches to a callback.
func SignProof(secret []byte, cid string, payload []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ProofClaims{
		CorrelationID: cid,
		Digest:        Digest(payload),
	})
	return token.SignedString(secret)
}

// JWTVerifier verifies HS256 proofs produced by SignProof.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

func (v *JWTVerifier) Verify(ctx context.Context, cid string, payload, proof []byte) error {
	claims := &ProofClaims{}
	token, err := jwt.ParseWithClaims(string(proof), claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrVerificationFailed, err)
	}
	if !token.Valid {
		return common.ErrVerificationFailed
	}
	if claims.CorrelationID != cid {
		return fmt.Errorf("%w: proof is for another request", common.ErrVerificationFailed)
	}
	if subtle.ConstantTimeCompare([]byte(claims.Digest), []byte(Digest(payload))) != 1 {
		return fmt.Errorf("%w: payload digest mismatch", common.ErrVerificationFailed)
	}
	return nil
}
