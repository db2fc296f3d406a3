package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	privateKeyStr = "ce9c2fd75623e82a83ed743518ec7749f6f355f7301dd432400b087717fed2f2"
	pubKeyStr     = "0251e2dfcdeea17cc9726e4be0855cd0bae19e64f3e247b10760cd76851e7df47e"
)

func TestSignVerify(t *testing.T) {
	plaintext := "hello world"
	invalidSignature := "3044022066504a82e2bc23167214e05497a1ca957add9cacc078aa69f5417079a4d56f0002206b215920b046c779d4a58d4029c26dbadcaf6d3c884b3463f44e70ef9146c1cd"

	privClient, err := New(privateKeyStr)
	assert.NoError(t, err)

	pubClient, err := New("")
	assert.NoError(t, err)

	signature := privClient.Sign(plaintext)
	verified, err := pubClient.Verify(plaintext, signature, pubKeyStr)
	assert.NoError(t, err)
	assert.True(t, verified)

	verified, err = pubClient.Verify(plaintext, invalidSignature, pubKeyStr)
	assert.NoError(t, err)
	assert.False(t, verified)
}

func TestAccount(t *testing.T) {
	privClient, err := New(privateKeyStr)
	assert.NoError(t, err)
	assert.Equal(t, pubKeyStr, privClient.Account())

	pubClient, err := New("")
	assert.NoError(t, err)
	assert.Empty(t, pubClient.Account())
}

func TestNewInvalidKey(t *testing.T) {
	_, err := New("not-hex")
	assert.Error(t, err)

	_, err = New("abcd")
	assert.Error(t, err)
}
