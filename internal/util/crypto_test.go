package util

import (
	"encoding/base64"
	"strings"
	"testing"
)

const testHexKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestTokenCipher_RoundTrip(t *testing.T) {
	cipher, err := NewTokenCipher(testHexKey)
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}

	plaintexts := []string{
		"EAABsbCS1234567890",
		"",
		"한글 토큰도 문제 없어야 한다",
	}

	for _, plaintext := range plaintexts {
		encoded, err := cipher.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error = %v", plaintext, err)
		}
		if encoded == plaintext && plaintext != "" {
			t.Errorf("Encrypt(%q) returned plaintext unchanged", plaintext)
		}

		decoded, err := cipher.Decrypt(encoded)
		if err != nil {
			t.Fatalf("Decrypt() error = %v", err)
		}
		if decoded != plaintext {
			t.Errorf("round trip = %q, want %q", decoded, plaintext)
		}
	}
}

func TestTokenCipher_EncryptIsNonDeterministic(t *testing.T) {
	cipher, err := NewTokenCipher(testHexKey)
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}

	// 같은 평문이라도 논스가 달라 암호문이 매번 달라야 한다
	first, _ := cipher.Encrypt("EAABsbCS1234567890")
	second, _ := cipher.Encrypt("EAABsbCS1234567890")
	if first == second {
		t.Errorf("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestNewTokenCipher_InvalidKey(t *testing.T) {
	tests := []struct {
		name   string
		hexKey string
	}{
		{"hex 가 아닌 키", "not-a-hex-key"},
		{"32바이트가 아닌 키", "0123456789abcdef"},
		{"빈 키", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTokenCipher(tt.hexKey); err == nil {
				t.Errorf("NewTokenCipher(%q) expected error, got nil", tt.hexKey)
			}
		})
	}
}

func TestTokenCipher_DecryptRejectsTampering(t *testing.T) {
	cipher, err := NewTokenCipher(testHexKey)
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}

	encoded, err := cipher.Encrypt("EAABsbCS1234567890")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	// 암호문 마지막 바이트를 뒤집어 변조
	raw, _ := base64.StdEncoding.DecodeString(encoded)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := cipher.Decrypt(tampered); err == nil {
		t.Errorf("Decrypt() of tampered ciphertext expected error, got nil")
	}
}

func TestTokenCipher_DecryptRejectsGarbage(t *testing.T) {
	cipher, err := NewTokenCipher(testHexKey)
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}

	tests := []struct {
		name    string
		encoded string
	}{
		{"base64 가 아닌 입력", "%%%not-base64%%%"},
		{"논스보다 짧은 입력", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := cipher.Decrypt(tt.encoded); err == nil {
				t.Errorf("Decrypt(%q) expected error, got nil", tt.encoded)
			}
		})
	}
}

func TestTokenCipher_DifferentKeysCannotDecrypt(t *testing.T) {
	cipherA, err := NewTokenCipher(testHexKey)
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}
	cipherB, err := NewTokenCipher(strings.Repeat("ff", 32))
	if err != nil {
		t.Fatalf("NewTokenCipher() error = %v", err)
	}

	encoded, err := cipherA.Encrypt("EAABsbCS1234567890")
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := cipherB.Decrypt(encoded); err == nil {
		t.Errorf("Decrypt() with a different key expected error, got nil")
	}
}
