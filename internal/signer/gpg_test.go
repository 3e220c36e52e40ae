package signer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

func newTestKey(t *testing.T) []byte {
	t.Helper()
	entity, err := openpgp.NewEntity("apkstats test", "", "test@example.com", nil)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	if err != nil {
		t.Fatalf("failed to create armor writer: %v", err)
	}
	if err := entity.SerializePrivate(w, nil); err != nil {
		t.Fatalf("failed to serialize key: %v", err)
	}
	w.Close()
	return buf.Bytes()
}

func TestSignDetachedVerifies(t *testing.T) {
	s, err := NewGPGSignerFromKey(newTestKey(t), "")
	if err != nil {
		t.Fatalf("NewGPGSignerFromKey() error: %v", err)
	}

	payload := []byte(`{"name":"app","androidManifest":{}}` + "\n")
	sig, err := s.SignDetached(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("SignDetached() error: %v", err)
	}
	if !strings.Contains(string(sig), "BEGIN PGP SIGNATURE") {
		t.Fatalf("signature is not armored:\n%s", sig)
	}

	pub, err := s.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error: %v", err)
	}
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	if err != nil {
		t.Fatalf("failed to read public key: %v", err)
	}

	if _, err := openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(payload), bytes.NewReader(sig), nil); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestNewGPGSignerRejectsGarbage(t *testing.T) {
	if _, err := NewGPGSignerFromKey([]byte("not a key"), ""); err == nil {
		t.Error("NewGPGSignerFromKey() expected error for invalid key")
	}
	if _, err := NewGPGSigner("", ""); err == nil {
		t.Error("NewGPGSigner() expected error for empty path")
	}
}
