// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/corvuschain/corvus/corvus"
)

// securePreimagePrefix marks trie key preimage entries in the database.
const securePreimagePrefix = "secure-key-"

// paranoia revalidates the trie when paranoid checks are enabled.
func (s *State) paranoia(when string, enforceRefs bool) error {
	if !s.paranoid {
		return nil
	}
	if !s.IsTrieGood(enforceRefs, false) {
		log.Warn("bad trie", "when", when)
		return &Error{ErrInvalidTrie}
	}
	return nil
}

// IsTrieGood walks the accounts trie and every storage trie, returning false
// on any detected corruption. With enforceRefs each reachable node blob is
// re-resolved from the database and its hash verified; the walk runs once
// per reference mode like the original checker. With requireNoLeftOvers any
// database key unreachable from the root counts as corruption.
func (s *State) IsTrieGood(enforceRefs, requireNoLeftOvers bool) bool {
	modes := []bool{false}
	if enforceRefs {
		modes = append(modes, true)
	}
	for _, enforce := range modes {
		reachable, ok := s.collectReachable()
		if !ok {
			return false
		}
		if enforce {
			for h := range reachable {
				blob, err := s.db.Get(h[:])
				if err != nil || corvus.Keccak256(blob) != h {
					log.Warn("unresolvable node", "hash", h.AbbrevString(), "err", err)
					return false
				}
			}
		}
		if requireNoLeftOvers {
			if lo := s.leftOvers(reachable); len(lo) > 0 {
				mode := "unenforced"
				if enforce {
					mode = "enforced"
				}
				log.Warn("leftovers", "mode", mode, "count", len(lo))
				return false
			}
		}
	}
	return true
}

// collectReachable gathers the hashes of every trie node and code blob
// reachable from the current root.
func (s *State) collectReachable() (map[corvus.Bytes32]struct{}, bool) {
	reachable := make(map[corvus.Bytes32]struct{})

	collect := func(t *trie.SecureTrie) bool {
		it := t.NodeIterator(nil)
		for it.Next(true) {
			if h := it.Hash(); h != (common.Hash{}) {
				reachable[corvus.Bytes32(h)] = struct{}{}
			}
		}
		if err := it.Error(); err != nil {
			log.Warn("trie iteration failed", "err", err)
			return false
		}
		return true
	}

	if !collect(s.trie) {
		return nil, false
	}

	it := trie.NewIterator(s.trie.NodeIterator(nil))
	for it.Next() {
		var leaf accountRLP
		if err := rlp.DecodeBytes(it.Value, &leaf); err != nil {
			log.Warn("undecodable account leaf", "err", err)
			return nil, false
		}
		if sroot := corvus.BytesToBytes32(leaf.StorageRoot); sroot != corvus.EmptyTrieRoot {
			st, err := s.openStorageTrie(sroot)
			if err != nil {
				log.Warn("unopenable storage trie", "root", sroot.AbbrevString(), "err", err)
				return nil, false
			}
			if !collect(st) {
				return nil, false
			}
		}
		if codeHash := corvus.BytesToBytes32(leaf.CodeHash); codeHash != corvus.EmptyCodeHash {
			reachable[codeHash] = struct{}{}
		}
	}
	if it.Err != nil {
		log.Warn("trie iteration failed", "err", it.Err)
		return nil, false
	}
	return reachable, true
}

// leftOvers returns database keys holding trie nodes or code unreachable
// from the current root. Preimage entries are exempt.
func (s *State) leftOvers(reachable map[corvus.Bytes32]struct{}) []corvus.Bytes32 {
	var lo []corvus.Bytes32
	for key := range s.db.Keys() {
		if strings.HasPrefix(key, securePreimagePrefix) {
			continue
		}
		if len(key) != 32 {
			continue
		}
		h := corvus.BytesToBytes32([]byte(key))
		if _, ok := reachable[h]; !ok {
			lo = append(lo, h)
		}
	}
	return lo
}

// PrettyPrint dumps every address present in cache or trie, tagged with a
// lead glyph: "." identical to trie, "*" modified, "+" new in cache, "XXX"
// killed. Code-bearing accounts list their effective storage with per-slot
// presence tags; plain accounts print [SIMPLE].
//
// Trie-only accounts whose address preimage is unknown are omitted.
func (s *State) PrettyPrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "--- %v\n", s.Root()); err != nil {
		return err
	}

	inTrie := make(map[corvus.Address][]byte)
	it := trie.NewIterator(s.trie.NodeIterator(nil))
	for it.Next() {
		preimage := s.trie.GetKey(it.Key)
		if len(preimage) != corvus.AddressLength {
			continue
		}
		inTrie[corvus.BytesToAddress(preimage)] = append([]byte(nil), it.Value...)
	}
	if it.Err != nil {
		return &Error{it.Err}
	}

	addrs := make([]corvus.Address, 0, len(inTrie)+len(s.cache))
	for addr := range inTrie {
		addrs = append(addrs, addr)
	}
	for addr := range s.cache {
		if _, ok := inTrie[addr]; !ok {
			addrs = append(addrs, addr)
		}
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	for _, addr := range addrs {
		cache := s.cache[addr]
		raw, hasLeaf := inTrie[addr]

		if cache != nil && !cache.IsAlive() {
			if _, err := fmt.Fprintf(w, "XXX  %v\n", addr); err != nil {
				return err
			}
			continue
		}

		var leaf accountRLP
		if hasLeaf {
			if err := rlp.DecodeBytes(raw, &leaf); err != nil {
				return &Error{err}
			}
		}

		lead := "     "
		if cache != nil {
			if hasLeaf {
				lead = " *   "
				if cache.nonce.Cmp(leaf.Nonce) == 0 && cache.balance.Cmp(leaf.Balance) == 0 {
					lead = " .   "
				}
			} else {
				lead = " +   "
			}
		}

		var contout strings.Builder

		codeBearing := (cache != nil && cache.CodeBearing()) ||
			(cache == nil && hasLeaf && corvus.BytesToBytes32(leaf.CodeHash) != corvus.EmptyCodeHash)

		if codeBearing {
			mem := make(map[corvus.Bytes32]corvus.Bytes32)
			back := make(map[corvus.Bytes32]struct{})
			delta := make(map[corvus.Bytes32]struct{})
			cached := make(map[corvus.Bytes32]struct{})

			if hasLeaf {
				st, err := s.openStorageTrie(corvus.BytesToBytes32(leaf.StorageRoot))
				if err != nil {
					return &Error{err}
				}
				sit := trie.NewIterator(st.NodeIterator(nil))
				for sit.Next() {
					key := st.GetKey(sit.Key)
					if key == nil {
						key = sit.Key
					}
					v, err := decodeStorageValue(sit.Value)
					if err != nil {
						return &Error{err}
					}
					k := corvus.BytesToBytes32(key)
					mem[k] = v
					back[k] = struct{}{}
				}
				if sit.Err != nil {
					return &Error{sit.Err}
				}
			}
			if cache != nil {
				for k, v := range cache.storageOverlay {
					old, inMem := mem[k]
					if (!inMem && !v.IsZero()) || (inMem && old != v) {
						mem[k] = v
						delta[k] = struct{}{}
					} else if !v.IsZero() {
						cached[k] = struct{}{}
					}
				}
			}
			if len(delta) > 0 {
				if lead == " .   " {
					lead = "*.*  "
				} else {
					lead = "***  "
				}
			}

			contout.WriteString(" @:")
			if len(delta) > 0 {
				contout.WriteString("???")
			} else {
				contout.WriteString(corvus.BytesToBytes32(leaf.StorageRoot).String())
			}
			if cache != nil && cache.IsFreshCode() {
				fmt.Fprintf(&contout, " $%x", cache.code)
			} else if cache != nil {
				fmt.Fprintf(&contout, " $%v", cache.codeHash)
			} else {
				fmt.Fprintf(&contout, " $%v", corvus.BytesToBytes32(leaf.CodeHash))
			}

			keys := make([]corvus.Bytes32, 0, len(mem))
			for k := range mem {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool {
				return bytes.Compare(keys[i][:], keys[j][:]) < 0
			})
			for _, k := range keys {
				v := mem[k]
				if !v.IsZero() {
					tag := "       "
					if _, isDelta := delta[k]; isDelta {
						if _, wasBack := back[k]; wasBack {
							tag = " *     "
						} else {
							tag = " +     "
						}
					} else if _, isCached := cached[k]; isCached {
						tag = " .     "
					}
					fmt.Fprintf(&contout, "\n%s%x: %x", tag, k, v)
				} else {
					fmt.Fprintf(&contout, "\nXXX    %x", k)
				}
			}
		} else {
			contout.WriteString(" [SIMPLE]")
		}

		nonce, balance := leaf.Nonce, leaf.Balance
		if cache != nil {
			nonce, balance = cache.nonce, cache.balance
		}
		if _, err := fmt.Fprintf(w, "%s%v: %v #:%v%s\n", lead, addr, nonce, balance, contout.String()); err != nil {
			return err
		}
	}
	return nil
}
