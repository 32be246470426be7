package domain

// Wallet holds the custodial signing material for one user.
// At most one wallet exists per user; creation and import refuse to
// overwrite an existing record.
type Wallet struct {
	UserID          int64
	PublicKey       string // base58-encoded ed25519 public key
	EncryptedSecret string // opaque AES-GCM envelope, base64-encoded
	CreatedAt       int64  // unix ms
}

// SecretKeyLen is the exact byte length of a decoded Solana secret key
// (32-byte seed followed by the 32-byte public key).
const SecretKeyLen = 64
