// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"fmt"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

var (
	// ErrNotEnoughCash returned by SubBalance when the account is missing or
	// its balance is below the requested amount.
	ErrNotEnoughCash = errors.New("not enough cash")

	// ErrNotEnoughAvailableSpace returned by OpenDB when the store failed to
	// open and the disk is (nearly) full.
	ErrNotEnoughAvailableSpace = errors.New("not enough available space")

	// ErrDatabaseAlreadyOpen returned by OpenDB when the store failed to open
	// for any other reason, commonly a second instance holding the lock.
	ErrDatabaseAlreadyOpen = errors.New("database already open")

	// ErrInvalidAccountStartNonce returned when the account start nonce is
	// read before it was set.
	ErrInvalidAccountStartNonce = errors.New("invalid account start nonce in state")

	// ErrIncorrectAccountStartNonce returned when a noted account start nonce
	// disagrees with the previously recorded one.
	ErrIncorrectAccountStartNonce = errors.New("incorrect account start nonce in state")

	// ErrInvalidTrie returned by the paranoia checker on detected corruption.
	ErrInvalidTrie = errors.New("invalid trie")

	// ErrInterfaceNotSupported returned by Addresses when fat-DB indexing is
	// not enabled.
	ErrInterfaceNotSupported = errors.New("interface not supported")
)
