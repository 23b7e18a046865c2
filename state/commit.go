// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/corvuschain/corvus/corvus"
)

// CommitBehaviour selects how commit treats touched-and-empty accounts.
type CommitBehaviour int

const (
	// KeepEmptyAccounts writes empty accounts like any other dirty entry.
	KeepEmptyAccounts CommitBehaviour = iota
	// RemoveEmptyAccounts prunes dirty empty accounts, the post-EIP158 rule.
	RemoveEmptyAccounts
)

// removeEmptyAccounts marks every dirty empty cache entry killed.
func (s *State) removeEmptyAccounts() {
	for _, a := range s.cache {
		if a.IsDirty() && a.IsEmpty() {
			a.kill()
		}
	}
}

// Commit flushes every dirty cache entry into the trie and returns the new
// root. The cache is empty afterwards; the set of addresses whose leaves
// changed accumulates in Touched.
func (s *State) Commit(behaviour CommitBehaviour) (corvus.Bytes32, error) {
	startTime := time.Now()

	if behaviour == RemoveEmptyAccounts {
		s.removeEmptyAccounts()
	}

	storageRoots, err := s.commitCache()
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}

	root, err := s.trie.Commit(nil)
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	// keep committed storage tries reachable from the new root so the node
	// cache flushes them together with the accounts trie
	for _, sroot := range storageRoots {
		s.trieDB.Reference(sroot, root)
	}
	if err := s.trieDB.Commit(root, false); err != nil {
		return corvus.Bytes32{}, &Error{err}
	}

	s.cache = make(map[corvus.Address]*Account)
	s.unchanged = s.unchanged[:0]

	metricCommitDuration().Observe(time.Since(startTime).Milliseconds())
	return corvus.Bytes32(root), nil
}

// commitCache translates cache entries into trie mutations: killed accounts
// delete their leaf, dirty accounts flush storage and code and rewrite their
// leaf, unchanged accounts write nothing. It returns the roots of storage
// tries committed along the way.
func (s *State) commitCache() ([]common.Hash, error) {
	var storageRoots []common.Hash

	for addr, a := range s.cache {
		switch {
		case !a.IsAlive():
			if err := s.trie.TryDelete(addr[:]); err != nil {
				return nil, err
			}
			s.touched[addr] = struct{}{}

		case a.IsDirty():
			storageRoot := a.baseStorageRoot
			if len(a.storageOverlay) > 0 {
				st, err := s.openStorageTrie(a.baseStorageRoot)
				if err != nil {
					return nil, err
				}
				// the overlay also holds read-through entries; rewriting
				// them is idempotent on the root
				for k, v := range a.storageOverlay {
					if err := saveStorage(st, k, v); err != nil {
						return nil, err
					}
				}
				sroot, err := st.Commit(nil)
				if err != nil {
					return nil, err
				}
				storageRoots = append(storageRoots, sroot)
				storageRoot = corvus.Bytes32(sroot)
			}

			codeHash := a.codeHash
			if a.freshCode {
				codeHash = corvus.Keccak256(a.code)
				if err := s.db.Put(codeHash[:], a.code); err != nil {
					return nil, err
				}
				codeCache.Add(string(codeHash[:]), a.code)
				a.codeHash = codeHash
				a.codeValid = true
				a.freshCode = false
			}

			data, err := encodeAccount(a.nonce, a.balance, storageRoot, codeHash)
			if err != nil {
				return nil, err
			}
			if err := s.trie.TryUpdate(addr[:], data); err != nil {
				return nil, err
			}
			s.touched[addr] = struct{}{}
		}
	}
	return storageRoots, nil
}
