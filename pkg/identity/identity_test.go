package identity

import "testing"

func TestNewGeneratesUniqueIdentities(t *testing.T) {
	a, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Identity.ID == b.Identity.ID {
		t.Fatal("expected distinct auto-generated ids")
	}
	if a.Identity.PublicKey == b.Identity.PublicKey {
		t.Fatal("expected distinct keypairs")
	}
}

func TestNewWithExplicitName(t *testing.T) {
	s, err := New("alice")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Identity.ID != "alice" {
		t.Fatalf("ID = %q, want alice", s.Identity.ID)
	}
	if s.Identity.Type != TypeEd25519 {
		t.Fatalf("Type = %q, want %q", s.Identity.Type, TypeEd25519)
	}
}

func TestSignAndVerify(t *testing.T) {
	s, err := New("alice")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	msg := []byte("hello world")
	sig, err := s.Sign(msg)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !Verify(s.Identity, sig, msg) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	s, _ := New("alice")
	msg := []byte("hello world")
	sig, _ := s.Sign(msg)
	if Verify(s.Identity, sig, []byte("goodbye world")) {
		t.Fatal("expected verification of tampered message to fail")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	a, _ := New("alice")
	b, _ := New("bob")
	msg := []byte("hello world")
	sig, _ := a.Sign(msg)
	if Verify(b.Identity, sig, msg) {
		t.Fatal("expected verification under the wrong identity to fail")
	}
}

func TestVerifyRejectsMalformedPublicKey(t *testing.T) {
	id := Identity{ID: "x", Type: TypeEd25519, PublicKey: "not-hex"}
	if Verify(id, []byte("sig"), []byte("msg")) {
		t.Fatal("expected malformed public key to fail verification")
	}
}

func TestFromPrivateKeyRoundTrip(t *testing.T) {
	s, err := New("alice")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rebuilt, err := FromPrivateKey("alice", s.private)
	if err != nil {
		t.Fatalf("FromPrivateKey: %v", err)
	}
	if rebuilt.Identity.PublicKey != s.Identity.PublicKey {
		t.Fatal("expected rebuilt signer to have the same public key")
	}
	msg := []byte("round trip")
	sig, _ := rebuilt.Sign(msg)
	if !Verify(s.Identity, sig, msg) {
		t.Fatal("expected signature from rebuilt signer to verify")
	}
}

func TestProviderLookup(t *testing.T) {
	s, _ := New("alice")
	p := NewProvider(s.Identity)
	got, ok := p.Lookup("alice")
	if !ok || got.ID != "alice" {
		t.Fatal("expected to find trusted identity")
	}
	if _, ok := p.Lookup("bob"); ok {
		t.Fatal("expected unknown identity to be absent")
	}
}

func TestProviderTrust(t *testing.T) {
	p := NewProvider()
	s, _ := New("carol")
	p.Trust(s.Identity)
	if _, ok := p.Lookup("carol"); !ok {
		t.Fatal("expected Trust to register identity")
	}
}
