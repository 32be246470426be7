// Package vault holds custody of user wallet secrets. Secrets are
// encrypted at rest and only ever leave the vault through an explicit
// reveal or as a single-use transaction signer.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"solana-swap-engine/internal/domain"
	"solana-swap-engine/internal/storage"
)

// RevealTTL is how long a revealed secret is considered exposed before
// the caller must discard it.
const RevealTTL = 60 * time.Second

// Vault manages wallet key material on top of a WalletStore. Plaintext
// secrets exist in memory only for the duration of a single call.
type Vault struct {
	store  storage.WalletStore
	cipher *secretCipher
	now    func() time.Time
}

// New builds a Vault whose envelopes are keyed off passphrase.
func New(store storage.WalletStore, passphrase string) (*Vault, error) {
	c, err := newSecretCipher(passphrase)
	if err != nil {
		return nil, err
	}
	return &Vault{store: store, cipher: c, now: time.Now}, nil
}

// Generate creates a fresh keypair for userID and persists it encrypted.
// Fails with domain.ErrAlreadyExists when the user already has a wallet.
func (v *Vault) Generate(ctx context.Context, userID int64) (*domain.Wallet, error) {
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return v.insert(ctx, userID, priv)
}

// Import validates a base58-encoded 64-byte secret key and persists it
// encrypted. Invalid material fails with domain.ErrValidation without
// touching the store.
func (v *Vault) Import(ctx context.Context, userID int64, secret string) (*domain.Wallet, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", domain.ErrValidation)
	}
	if len(raw) != domain.SecretKeyLen {
		return nil, fmt.Errorf("secret key is %d bytes, want %d: %w",
			len(raw), domain.SecretKeyLen, domain.ErrValidation)
	}

	priv := solana.PrivateKey(raw)
	return v.insert(ctx, userID, priv)
}

func (v *Vault) insert(ctx context.Context, userID int64, priv solana.PrivateKey) (*domain.Wallet, error) {
	envelope, err := v.cipher.Seal(priv)
	if err != nil {
		return nil, fmt.Errorf("seal secret: %w", err)
	}

	wallet := &domain.Wallet{
		UserID:          userID,
		PublicKey:       priv.PublicKey().String(),
		EncryptedSecret: envelope,
		CreatedAt:       v.now().UnixMilli(),
	}
	if err := v.store.Insert(ctx, wallet); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("wallet for user %d: %w", userID, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert wallet: %w", err)
	}
	return wallet, nil
}

// Wallet returns the stored wallet for userID, or domain.ErrNoWallet.
func (v *Vault) Wallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	wallet, err := v.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrNoWallet
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return wallet, nil
}

// SignerFor decrypts the user's secret and returns a single-use Signer.
// An envelope that no longer opens under the current key fails with
// domain.ErrCustody.
func (v *Vault) SignerFor(ctx context.Context, userID int64) (*Signer, error) {
	wallet, err := v.Wallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := v.cipher.Open(wallet.EncryptedSecret)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrCustody)
	}
	if len(raw) != domain.SecretKeyLen {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrCustody)
	}

	return &Signer{key: solana.PrivateKey(raw)}, nil
}

// Reveal decrypts and returns the base58 secret together with the
// exposure window the caller must honor.
func (v *Vault) Reveal(ctx context.Context, userID int64) (string, time.Duration, error) {
	wallet, err := v.Wallet(ctx, userID)
	if err != nil {
		return "", 0, err
	}

	raw, err := v.cipher.Open(wallet.EncryptedSecret)
	if err != nil {
		return "", 0, fmt.Errorf("user %d: %w", userID, domain.ErrCustody)
	}
	return base58.Encode(raw), RevealTTL, nil
}

// Delete removes the user's wallet. Returns false when there was
// nothing to delete.
func (v *Vault) Delete(ctx context.Context, userID int64) (bool, error) {
	return v.store.Delete(ctx, userID)
}

// Signer signs exactly one transaction and then refuses further use, so
// decrypted key material cannot be kept around across operations.
type Signer struct {
	key  solana.PrivateKey
	used atomic.Bool
}

// PublicKey returns the signing key's public half.
func (s *Signer) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

// SignTransaction signs tx in place. A second call fails.
func (s *Signer) SignTransaction(tx *solana.Transaction) error {
	if !s.used.CompareAndSwap(false, true) {
		return fmt.Errorf("signer already used")
	}
	_, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(s.key.PublicKey()) {
			k := s.key
			return &k
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	return nil
}
