package oracle

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophreveal/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier(t *testing.T) {
	secret := []byte("oracle")
	payload := EncodeCount(2)

	good, err := SignProof(secret, "cid-1", payload)
	require.NoError(t, err)

	otherKey, err := SignProof([]byte("intruder"), "cid-1", payload)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, ProofClaims{
		CorrelationID: "cid-1", Digest: Digest(payload),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	v := NewJWTVerifier(secret)
	ctx := context.Background()

	tests := []struct {
		name    string
		cid     string
		payload []byte
		proof   string
		ok      bool
	}{
		{"valid", "cid-1", payload, good, true},
		{"other correlation id", "cid-2", payload, good, false},
		{"tampered payload", "cid-1", EncodeCount(3), good, false},
		{"wrong key", "cid-1", payload, otherKey, false},
		{"alg none", "cid-1", payload, none, false},
		{"garbage", "cid-1", payload, "not-a-jwt", false},
		{"empty", "cid-1", payload, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(ctx, tt.cid, tt.payload, []byte(tt.proof))
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, common.ErrVerificationFailed)
			}
		})
	}
}
