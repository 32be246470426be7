package vault

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage/memory"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New(memory.NewWalletStore(), "test passphrase")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestVault_GenerateThenSign(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	wallet, err := v.Generate(ctx, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if wallet.PublicKey == "" {
		t.Fatal("generated wallet has empty public key")
	}
	if wallet.EncryptedSecret == "" {
		t.Fatal("generated wallet has empty encrypted secret")
	}

	signer, err := v.SignerFor(ctx, 1)
	if err != nil {
		t.Fatalf("SignerFor: %v", err)
	}
	if signer.PublicKey().String() != wallet.PublicKey {
		t.Fatalf("signer public key %s, want %s", signer.PublicKey(), wallet.PublicKey)
	}
}

func TestVault_GenerateTwiceFails(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	if _, err := v.Generate(ctx, 1); err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	_, err := v.Generate(ctx, 1)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second Generate error = %v, want ErrAlreadyExists", err)
	}
}

func TestVault_ImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	secret := base58.Encode(priv)

	wallet, err := v.Import(ctx, 7, secret)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if wallet.PublicKey != priv.PublicKey().String() {
		t.Fatalf("imported public key %s, want %s", wallet.PublicKey, priv.PublicKey())
	}

	revealed, ttl, err := v.Reveal(ctx, 7)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if revealed != secret {
		t.Fatal("revealed secret does not match imported secret")
	}
	if ttl != RevealTTL {
		t.Fatalf("reveal ttl = %v, want %v", ttl, RevealTTL)
	}
}

func TestVault_ImportRejectsBadMaterial(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	cases := map[string]string{
		"not base58":   "0OIl not base58 at all",
		"wrong length": base58.Encode([]byte("short")),
	}
	for name, secret := range cases {
		_, err := v.Import(ctx, 1, secret)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: Import error = %v, want ErrValidation", name, err)
		}
	}

	if _, err := v.Wallet(ctx, 1); !errors.Is(err, domain.ErrNoWallet) {
		t.Fatal("rejected import left a wallet behind")
	}
}

func TestVault_NoWallet(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	if _, err := v.Wallet(ctx, 42); !errors.Is(err, domain.ErrNoWallet) {
		t.Fatalf("Wallet error = %v, want ErrNoWallet", err)
	}
	if _, err := v.SignerFor(ctx, 42); !errors.Is(err, domain.ErrNoWallet) {
		t.Fatalf("SignerFor error = %v, want ErrNoWallet", err)
	}
	if _, _, err := v.Reveal(ctx, 42); !errors.Is(err, domain.ErrNoWallet) {
		t.Fatalf("Reveal error = %v, want ErrNoWallet", err)
	}
}

func TestVault_KeyRotationSurfacesCustodyError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewWalletStore()

	v1, err := New(store, "old passphrase")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := v1.Generate(ctx, 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	v2, err := New(store, "new passphrase")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := v2.SignerFor(ctx, 1); !errors.Is(err, domain.ErrCustody) {
		t.Fatalf("SignerFor error = %v, want ErrCustody", err)
	}
	if _, _, err := v2.Reveal(ctx, 1); !errors.Is(err, domain.ErrCustody) {
		t.Fatalf("Reveal error = %v, want ErrCustody", err)
	}
}

func TestVault_Delete(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	if _, err := v.Generate(ctx, 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	deleted, err := v.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete returned false for an existing wallet")
	}

	deleted, err = v.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("Delete returned true for a missing wallet")
	}
}

func TestSigner_SingleUse(t *testing.T) {
	ctx := context.Background()
	v := newTestVault(t)

	if _, err := v.Generate(ctx, 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	signer, err := v.SignerFor(ctx, 1)
	if err != nil {
		t.Fatalf("SignerFor: %v", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{},
		solana.Hash{},
		solana.TransactionPayer(signer.PublicKey()),
	)
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}

	if err := signer.SignTransaction(tx); err != nil {
		t.Fatalf("first SignTransaction: %v", err)
	}
	if err := signer.SignTransaction(tx); err == nil {
		t.Fatal("second SignTransaction succeeded, want error")
	}
}
