// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the world state of accounts.
//
// It follows the flow below:
//
//	          o
//	          |
//	  [ account cache ] -> dirty entries -> [ commit ] -> [ accounts trie ]
//	          |                                                  |
//	  [ storage tries ] <------------------------------ [ overlay db ] -> disk
//
// Reads populate the cache lazily from the trie; mutations stay in the cache
// until Commit translates them into trie writes and the new root. Dropping
// the cache reverts everything since the last commit.
package state
