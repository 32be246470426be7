package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"solana-swap-engine/internal/domain"
)

func validRecipient(t *testing.T) string {
	t.Helper()
	priv, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey: %v", err)
	}
	return priv.PublicKey().String()
}

func TestExecutor_Withdraw(t *testing.T) {
	f := newFixture(t)

	result, err := f.executor.Withdraw(context.Background(), 1, validRecipient(t), 0.5)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Signature != "testsig" {
		t.Errorf("signature = %s, want testsig", result.Signature)
	}
	if result.Lamports != 500_000_000 {
		t.Errorf("lamports = %d, want 500000000", result.Lamports)
	}
	if f.submitter.gotProtected {
		t.Error("withdrawal should use the direct path")
	}
}

func TestExecutor_Withdraw_InvalidRecipient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, recipient := range map[string]string{
		"empty":        "",
		"not base58":   "0OIl+/",
		"wrong length": base58.Encode([]byte("too short")),
	} {
		_, err := f.executor.Withdraw(ctx, 1, recipient, 0.5)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: Withdraw error = %v, want ErrValidation", name, err)
		}
	}
	if f.submitter.submissions != 0 {
		t.Error("invalid recipient reached submission")
	}
}

func TestExecutor_Withdraw_OffCurveRecipient(t *testing.T) {
	f := newFixture(t)

	// Walk from a valid key until the point no longer decodes; roughly
	// half of all 32-byte strings are off the curve, so this is quick.
	raw, err := base58.Decode(validRecipient(t))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for i := 0; i < 64; i++ {
		raw[0]++
		if _, err := parseRecipient(base58.Encode(raw)); err != nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no off-curve candidate found in walk")
	}

	_, err = f.executor.Withdraw(context.Background(), 1, base58.Encode(raw), 0.5)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Withdraw error = %v, want ErrValidation", err)
	}
}

func TestExecutor_Withdraw_AmountValidation(t *testing.T) {
	f := newFixture(t)

	for _, amount := range []float64{0, -1} {
		_, err := f.executor.Withdraw(context.Background(), 1, validRecipient(t), amount)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("amount %f: Withdraw error = %v, want ErrValidation", amount, err)
		}
	}
}

func TestExecutor_Withdraw_InsufficientBalance(t *testing.T) {
	f := newFixture(t)
	// Exactly the amount, nothing left for the network fee.
	f.rpc.balance = 500_000_000

	_, err := f.executor.Withdraw(context.Background(), 1, validRecipient(t), 0.5)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("Withdraw error = %v, want ErrInsufficientBalance", err)
	}
}

func TestExecutor_Withdraw_NoWallet(t *testing.T) {
	f := newFixture(t)

	_, err := f.executor.Withdraw(context.Background(), 99, validRecipient(t), 0.5)
	if !errors.Is(err, domain.ErrNoWallet) {
		t.Fatalf("Withdraw error = %v, want ErrNoWallet", err)
	}
}

func TestExecutor_Withdraw_SharesTradeLease(t *testing.T) {
	f := newFixture(t)
	f.confirmer.started = make(chan struct{})
	f.confirmer.release = make(chan struct{})

	errCh := make(chan error, 1)
	go func() {
		_, err := f.executor.Execute(context.Background(), buyRequest())
		errCh <- err
	}()

	<-f.confirmer.started

	_, err := f.executor.Withdraw(context.Background(), 1, validRecipient(t), 0.1)
	if !errors.Is(err, domain.ErrTradeInFlight) {
		t.Fatalf("Withdraw error = %v, want ErrTradeInFlight", err)
	}

	close(f.confirmer.release)
	if err := <-errCh; err != nil {
		t.Fatalf("Execute: %v", err)
	}
}
