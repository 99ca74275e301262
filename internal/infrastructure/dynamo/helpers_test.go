package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"email": "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "email"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"updated_at":                 time.Unix(0, 0).UTC(),
		"confirmation_reset_timeout": int64(1700000000),
		"email":                      "a@x.com",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: confirmation_reset_timeout < email < updated_at
	assert.Equal(t, "confirmation_reset_timeout", ue1.Names["#f0"])
	assert.Equal(t, "email", ue1.Names["#f1"])
	assert.Equal(t, "updated_at", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"confirmation_reset_timeout": int64(42)})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	n, isNum := av.(*types.AttributeValueMemberN)
	require.True(t, isNum)
	assert.Equal(t, "42", n.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestEmailQuery_NormalizesAndUsesKeyIndex(t *testing.T) {
	in := emailQuery("accounts", "  Ada@Example.COM ")

	assert.Equal(t, "accounts", *in.TableName)
	assert.Equal(t, indexEmailKey, *in.IndexName)
	assert.Equal(t, map[string]string{"#k": fieldEmailKey}, in.ExpressionAttributeNames)
	v, ok := in.ExpressionAttributeValues[":v"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", v.Value)
}
