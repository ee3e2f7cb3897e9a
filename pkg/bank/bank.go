// Package bank holds the pooled chip liability backing blackjack payouts.
package bank

import (
	"errors"
	"sync"
)

// ErrInsufficientFunds is an error when the bank cannot cover the requested amount
var ErrInsufficientFunds = errors.New("bank cannot cover the requested amount")

// ErrInvalidAmount is an error when a non-positive amount is supplied
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Bank is a single liability counter shared by every table of a game.
// The balance can never go negative; every check-and-mutate happens inside
// one critical section so a payout can never race a coverage check.
type Bank struct {
	mu      sync.Mutex
	balance int
}

// New returns a bank seeded with the initial balance
func New(balance int) *Bank {
	if balance < 0 {
		panic("bank cannot start with a negative balance")
	}

	return &Bank{balance: balance}
}

// Balance returns the current balance
func (b *Bank) Balance() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balance
}

// Fund adds chips to the bank (admin operation)
func (b *Bank) Fund(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.balance += amount
	return nil
}

// Defund removes chips from the bank (admin operation)
func (b *Bank) Defund(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if amount > b.balance {
		return ErrInsufficientFunds
	}

	b.balance -= amount
	return nil
}

// StartHand collects the hand's wagers after verifying the bank can cover the
// worst-case payout. Both happen atomically: if the bank (plus the incoming
// wagers) cannot cover worstPayout, nothing is collected and the hand must not
// be dealt.
func (b *Bank) StartHand(wagers, worstPayout int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balance+wagers < worstPayout {
		return ErrInsufficientFunds
	}

	b.balance += wagers
	return nil
}

// Collect adds an additional mid-hand wager (a double down) to the bank.
func (b *Bank) Collect(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.balance += amount
	return nil
}

// Pay atomically verifies and deducts the hand's total payout.
// A payout that would drive the balance negative is an invariant violation;
// the caller must abort the settlement with no partial disbursement.
func (b *Bank) Pay(total int) error {
	if total < 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if total > b.balance {
		return ErrInsufficientFunds
	}

	b.balance -= total
	return nil
}
