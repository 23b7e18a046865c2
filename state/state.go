// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	lru "github.com/hashicorp/golang-lru"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/overlaydb"
)

// cacheSoftLimit bounds the number of unchanged cache entries before random
// eviction kicks in.
const cacheSoftLimit = 1000

// codeCache caches contract bytecode by code hash, shared by all states in
// the process.
var codeCache, _ = lru.NewARC(512)

// BaseState selects how a new State binds to the trie.
type BaseState int

const (
	// BaseEmpty starts from a freshly initialized empty trie.
	BaseEmpty BaseState = iota
	// BasePreExisting starts over the empty trie like BaseEmpty; the caller
	// must SetRoot before first access.
	BasePreExisting
)

// State manages the world state: a write-back account cache over the secure
// accounts trie. At most one goroutine may use a State at a time; reads
// mutate the cache too.
type State struct {
	db     *overlaydb.OverlayDB
	trieDB *trie.Database
	trie   *trie.SecureTrie

	cache     map[corvus.Address]*Account
	unchanged []corvus.Address // eviction candidate pool
	touched   map[corvus.Address]struct{}

	accountStartNonce *big.Int // nil until noted
	codeSizes         *CodeSizeCache

	rnd      *rand.Rand
	paranoid bool
	fatDB    bool
	vmTrace  bool
}

// New create a state object over the given overlay db.
//
// accountStartNonce is the protocol-defined nonce of newly created accounts;
// pass nil to note it later. With BasePreExisting the returned state must be
// pointed at a root via SetRoot before first access.
func New(accountStartNonce *big.Int, db *overlaydb.OverlayDB, base BaseState) (*State, error) {
	// both bases start over the empty trie; BasePreExisting merely documents
	// that a SetRoot must follow before first access
	trieDB := trie.NewDatabase(db)
	return newState(accountStartNonce, db, trieDB, defaultCodeSizeCache, common.Hash{})
}

func newState(
	accountStartNonce *big.Int,
	db *overlaydb.OverlayDB,
	trieDB *trie.Database,
	codeSizes *CodeSizeCache,
	root common.Hash,
) (*State, error) {
	tr, err := trie.NewSecure(root, trieDB, 0)
	if err != nil {
		return nil, &Error{err}
	}
	if accountStartNonce != nil {
		accountStartNonce = new(big.Int).Set(accountStartNonce)
	}
	return &State{
		db:                db,
		trieDB:            trieDB,
		trie:              tr,
		cache:             make(map[corvus.Address]*Account),
		touched:           make(map[corvus.Address]struct{}),
		accountStartNonce: accountStartNonce,
		codeSizes:         codeSizes,
		rnd:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Clone makes an independent copy: the overlay db and trie node cache are
// shared, the account cache is copied by value and the trie is re-rooted at
// the current root.
func (s *State) Clone() (*State, error) {
	tr, err := trie.NewSecure(s.trie.Hash(), s.trieDB, 0)
	if err != nil {
		return nil, &Error{err}
	}
	cpy := &State{
		db:        s.db,
		trieDB:    s.trieDB,
		trie:      tr,
		cache:     make(map[corvus.Address]*Account, len(s.cache)),
		unchanged: append([]corvus.Address(nil), s.unchanged...),
		touched:   make(map[corvus.Address]struct{}, len(s.touched)),
		codeSizes: s.codeSizes,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		paranoid:  s.paranoid,
		fatDB:     s.fatDB,
		vmTrace:   s.vmTrace,
	}
	for addr, a := range s.cache {
		cpy.cache[addr] = a.copy()
	}
	for addr := range s.touched {
		cpy.touched[addr] = struct{}{}
	}
	if s.accountStartNonce != nil {
		cpy.accountStartNonce = new(big.Int).Set(s.accountStartNonce)
	}
	return cpy, nil
}

// SetRoot drops the cache and points the trie at the given root. Stale cache
// entries would shadow the new root, hence the mandatory clear.
func (s *State) SetRoot(root corvus.Bytes32) error {
	tr, err := trie.NewSecure(common.Hash(root), s.trieDB, 0)
	if err != nil {
		return &Error{err}
	}
	s.trie = tr
	s.cache = make(map[corvus.Address]*Account)
	s.unchanged = s.unchanged[:0]
	return nil
}

// Root returns the current trie root. Mutations made since the last commit
// are not reflected.
func (s *State) Root() corvus.Bytes32 {
	return corvus.Bytes32(s.trie.Hash())
}

// Touched returns the set of addresses whose trie leaves changed over this
// state's lifetime.
func (s *State) Touched() []corvus.Address {
	addrs := make([]corvus.Address, 0, len(s.touched))
	for addr := range s.touched {
		addrs = append(addrs, addr)
	}
	return addrs
}

// SeedEviction reseeds the eviction RNG, for reproducible tests.
func (s *State) SeedEviction(seed int64) {
	s.rnd = rand.New(rand.NewSource(seed))
}

// SetParanoid toggles the trie revalidation around execution. Expensive;
// development only.
func (s *State) SetParanoid(on bool) { s.paranoid = on }

// SetFatDB toggles address indexing needed by Addresses.
func (s *State) SetFatDB(on bool) { s.fatDB = on }

// SetVMTrace substitutes a tracing per-opcode callback during Execute when
// none is supplied.
func (s *State) SetVMTrace(on bool) { s.vmTrace = on }

// RequireAccountStartNonce returns the account start nonce, failing if it was
// never set.
func (s *State) RequireAccountStartNonce() (*big.Int, error) {
	if s.accountStartNonce == nil {
		return nil, &Error{ErrInvalidAccountStartNonce}
	}
	return new(big.Int).Set(s.accountStartNonce), nil
}

// NoteAccountStartNonce records the account start nonce, failing on
// disagreement with a previously noted value.
func (s *State) NoteAccountStartNonce(actual *big.Int) error {
	if s.accountStartNonce == nil {
		s.accountStartNonce = new(big.Int).Set(actual)
		return nil
	}
	if s.accountStartNonce.Cmp(actual) != 0 {
		return &Error{ErrIncorrectAccountStartNonce}
	}
	return nil
}

// account is the central read path. It returns the cached account, loading
// the trie leaf on a miss, or nil if the address is absent from both cache
// and trie. With requireCode the bytecode is loaded as well.
func (s *State) account(addr corvus.Address, requireCode bool) (*Account, error) {
	a, ok := s.cache[addr]
	if !ok {
		data, err := s.trie.TryGet(addr[:])
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			metricAccountLookups().AddWithLabel(1, map[string]string{"result": "absent"})
			return nil, nil
		}
		s.clearCacheIfTooLarge()

		if a, err = decodeAccount(data); err != nil {
			return nil, err
		}
		s.cache[addr] = a
		s.unchanged = append(s.unchanged, addr)
		metricAccountLookups().AddWithLabel(1, map[string]string{"result": "miss"})
	} else {
		metricAccountLookups().AddWithLabel(1, map[string]string{"result": "hit"})
	}

	if requireCode && !a.isCodeLoaded() {
		if a.codeHash == corvus.EmptyCodeHash {
			a.noteCode(nil)
		} else if cached, ok := codeCache.Get(string(a.codeHash[:])); ok {
			a.noteCode(cached.([]byte))
		} else {
			code := s.db.Lookup(a.codeHash[:])
			codeCache.Add(string(a.codeHash[:]), code)
			a.noteCode(code)
		}
		s.codeSizes.Store(a.codeHash, len(a.code))
	}
	return a, nil
}

// clearCacheIfTooLarge evicts random unchanged entries while the candidate
// pool exceeds the soft limit. Dirty entries never evict; the pool is a
// best-effort candidate list, not an index of eligibility.
func (s *State) clearCacheIfTooLarge() {
	for len(s.unchanged) > cacheSoftLimit {
		i := s.rnd.Intn(len(s.unchanged))
		addr := s.unchanged[i]

		last := len(s.unchanged) - 1
		s.unchanged[i] = s.unchanged[last]
		s.unchanged = s.unchanged[:last]

		if a, ok := s.cache[addr]; ok && !a.IsDirty() {
			delete(s.cache, addr)
			metricCacheEvictions().Add(1)
		}
	}
}

// AddressInUse returns whether an account exists at the given address.
func (s *State) AddressInUse(addr corvus.Address) (bool, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return false, &Error{err}
	}
	return a != nil, nil
}

// AccountNonemptyAndExisting returns whether the account exists and is
// non-empty.
func (s *State) AccountNonemptyAndExisting(addr corvus.Address) (bool, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return false, &Error{err}
	}
	return a != nil && !a.IsEmpty(), nil
}

// AddressHasCode returns whether the account bears contract code.
func (s *State) AddressHasCode(addr corvus.Address) (bool, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return false, &Error{err}
	}
	return a != nil && a.CodeBearing(), nil
}

// Balance returns the balance for the given address, zero when absent.
func (s *State) Balance(addr corvus.Address) (*big.Int, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return nil, &Error{err}
	}
	if a == nil {
		return new(big.Int), nil
	}
	return a.Balance(), nil
}

// GetNonce returns the nonce for the given address, the account start nonce
// when absent.
func (s *State) GetNonce(addr corvus.Address) (*big.Int, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return nil, &Error{err}
	}
	if a == nil {
		return s.RequireAccountStartNonce()
	}
	return a.Nonce(), nil
}

// AddBalance adds amount to the account, creating it when absent.
func (s *State) AddBalance(addr corvus.Address, amount *big.Int) error {
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a != nil {
		a.addBalance(amount)
		return nil
	}
	startNonce, err := s.RequireAccountStartNonce()
	if err != nil {
		return err
	}
	s.cache[addr] = newAccount(startNonce, amount, statusDirty)
	return nil
}

// SubBalance subtracts amount from the account. A zero amount is a no-op;
// a missing account or insufficient balance fails with ErrNotEnoughCash.
func (s *State) SubBalance(addr corvus.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a == nil || a.balance.Cmp(amount) < 0 {
		return &Error{ErrNotEnoughCash}
	}
	a.subBalance(amount)
	return nil
}

// IncNonce increments the account nonce, creating the account when absent.
// Creation happens here when a transaction carries a zero gas price and never
// touches the balance.
func (s *State) IncNonce(addr corvus.Address) error {
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a != nil {
		a.incNonce()
		return nil
	}
	startNonce, err := s.RequireAccountStartNonce()
	if err != nil {
		return err
	}
	s.cache[addr] = newAccount(startNonce.Add(startNonce, big.NewInt(1)), new(big.Int), statusDirty)
	return nil
}

// EnsureAccountExists creates an empty account at the address when absent.
func (s *State) EnsureAccountExists(addr corvus.Address) error {
	inUse, err := s.AddressInUse(addr)
	if err != nil {
		return err
	}
	if inUse {
		return nil
	}
	startNonce, err := s.RequireAccountStartNonce()
	if err != nil {
		return err
	}
	s.cache[addr] = newAccount(startNonce, new(big.Int), statusDirty)
	return nil
}

// CreateContract replaces the account at the address with a newly conceived
// contract. Any pre-existing balance at the address is preserved.
func (s *State) CreateContract(addr corvus.Address, incNonce bool) error {
	balance, err := s.Balance(addr)
	if err != nil {
		return err
	}
	startNonce, err := s.RequireAccountStartNonce()
	if err != nil {
		return err
	}
	nonce := startNonce
	if incNonce {
		nonce = nonce.Add(nonce, big.NewInt(1))
	}
	s.cache[addr] = newAccount(nonce, balance, statusConceived)
	return nil
}

// SetCode installs fresh contract bytecode on the account, creating it when
// absent. The code hash resolves at commit.
func (s *State) SetCode(addr corvus.Address, code []byte) error {
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a == nil {
		startNonce, err := s.RequireAccountStartNonce()
		if err != nil {
			return err
		}
		a = newAccount(startNonce, new(big.Int), statusDirty)
		s.cache[addr] = a
	}
	a.setFreshCode(code)
	return nil
}

// Kill marks the account for removal at commit. Killing an address absent
// from both cache and trie is a no-op, not an error.
func (s *State) Kill(addr corvus.Address) error {
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a != nil {
		a.kill()
	}
	return nil
}

// SetStorage writes the slot value into the account's storage overlay,
// creating the account when absent. A zero value means deletion.
func (s *State) SetStorage(addr corvus.Address, key, value corvus.Bytes32) error {
	a, err := s.account(addr, false)
	if err != nil {
		return &Error{err}
	}
	if a == nil {
		startNonce, err := s.RequireAccountStartNonce()
		if err != nil {
			return err
		}
		a = newAccount(startNonce, new(big.Int), statusDirty)
		s.cache[addr] = a
	}
	a.setStorage(key, value)
	return nil
}

// Storage returns the slot value: the overlay when cached, otherwise read
// through from the storage trie and cached without dirtying the account.
func (s *State) Storage(addr corvus.Address, key corvus.Bytes32) (corvus.Bytes32, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	if a == nil {
		return corvus.Bytes32{}, nil
	}
	if v, ok := a.storageOverlay[key]; ok {
		return v, nil
	}
	st, err := s.openStorageTrie(a.baseStorageRoot)
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	v, err := loadStorage(st, key)
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	a.cacheStorage(key, v)
	return v, nil
}

// StorageMap materializes the full effective storage of the account by
// iterating the storage trie and overlaying dirty entries on top: non-zero
// values overwrite, zero values erase. Zero and absent are indistinguishable
// in the result. Introspection/debug use only.
func (s *State) StorageMap(addr corvus.Address) (map[corvus.Bytes32]corvus.Bytes32, error) {
	ret := make(map[corvus.Bytes32]corvus.Bytes32)

	a, err := s.account(addr, false)
	if err != nil {
		return nil, &Error{err}
	}
	if a == nil {
		return ret, nil
	}

	if a.baseStorageRoot != corvus.EmptyTrieRoot {
		st, err := s.openStorageTrie(a.baseStorageRoot)
		if err != nil {
			return nil, &Error{err}
		}
		it := trie.NewIterator(st.NodeIterator(nil))
		for it.Next() {
			key := st.GetKey(it.Key)
			if key == nil {
				// preimage unknown, fall back to the hashed slot
				key = it.Key
			}
			v, err := decodeStorageValue(it.Value)
			if err != nil {
				return nil, &Error{err}
			}
			ret[corvus.BytesToBytes32(key)] = v
		}
		if it.Err != nil {
			return nil, &Error{it.Err}
		}
	}

	for k, v := range a.storageOverlay {
		if v.IsZero() {
			delete(ret, k)
		} else {
			ret[k] = v
		}
	}
	return ret, nil
}

// StorageRoot returns the storage root recorded in the trie leaf, bypassing
// the cache. Pending overlay writes are not reflected.
func (s *State) StorageRoot(addr corvus.Address) (corvus.Bytes32, error) {
	data, err := s.trie.TryGet(addr[:])
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	if len(data) == 0 {
		return corvus.EmptyTrieRoot, nil
	}
	var leaf accountRLP
	if err := rlp.DecodeBytes(data, &leaf); err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	return corvus.BytesToBytes32(leaf.StorageRoot), nil
}

// Code returns the contract code at the given address, nil when the account
// is absent or bears none.
func (s *State) Code(addr corvus.Address) ([]byte, error) {
	hasCode, err := s.AddressHasCode(addr)
	if err != nil {
		return nil, err
	}
	if !hasCode {
		return nil, nil
	}
	a, err := s.account(addr, true)
	if err != nil {
		return nil, &Error{err}
	}
	return a.code, nil
}

// CodeHash returns the code hash at the given address. Pending fresh code is
// hashed on the fly; absent accounts report the empty code hash.
func (s *State) CodeHash(addr corvus.Address) (corvus.Bytes32, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return corvus.Bytes32{}, &Error{err}
	}
	if a == nil {
		return corvus.EmptyCodeHash, nil
	}
	if a.freshCode {
		return corvus.Keccak256(a.code), nil
	}
	return a.codeHash, nil
}

// CodeSize returns the code length at the given address, consulting the code
// size cache to avoid loading bytecode.
func (s *State) CodeSize(addr corvus.Address) (int, error) {
	a, err := s.account(addr, false)
	if err != nil {
		return 0, &Error{err}
	}
	if a == nil {
		return 0, nil
	}
	if a.freshCode {
		return len(a.code), nil
	}
	if size, ok := s.codeSizes.Get(a.codeHash); ok {
		return size, nil
	}
	code, err := s.Code(addr)
	if err != nil {
		return 0, err
	}
	s.codeSizes.Store(a.codeHash, len(code))
	return len(code), nil
}

// Addresses returns every live address with its balance. It requires fat-DB
// indexing; otherwise ErrInterfaceNotSupported.
func (s *State) Addresses() (map[corvus.Address]*big.Int, error) {
	if !s.fatDB {
		return nil, &Error{ErrInterfaceNotSupported}
	}

	ret := make(map[corvus.Address]*big.Int)
	it := trie.NewIterator(s.trie.NodeIterator(nil))
	for it.Next() {
		preimage := s.trie.GetKey(it.Key)
		if len(preimage) != corvus.AddressLength {
			continue
		}
		var leaf accountRLP
		if err := rlp.DecodeBytes(it.Value, &leaf); err != nil {
			return nil, &Error{err}
		}
		addr := corvus.BytesToAddress(preimage)
		if _, ok := s.cache[addr]; !ok {
			ret[addr] = leaf.Balance
		}
	}
	if it.Err != nil {
		return nil, &Error{it.Err}
	}
	for addr, a := range s.cache {
		if a.IsAlive() {
			ret[addr] = a.Balance()
		}
	}
	return ret, nil
}

func (s *State) openStorageTrie(root corvus.Bytes32) (*trie.SecureTrie, error) {
	return trie.NewSecure(common.Hash(root), s.trieDB, 0)
}

// dropCache discards every pending mutation and cached entry.
func (s *State) dropCache() {
	s.cache = make(map[corvus.Address]*Account)
	s.unchanged = s.unchanged[:0]
}
