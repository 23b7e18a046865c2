// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package overlaydb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/lvldb"
)

func TestOverlayDB(t *testing.T) {
	store, _ := lvldb.OpenMem()
	defer store.Close()

	db := New(store)

	key := []byte("k1")
	value := []byte("v1")

	// buffered write is visible through the overlay but not on disk
	assert.Nil(t, db.Put(key, value))
	got, err := db.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, got)

	_, err = store.Get(key)
	assert.True(t, store.IsNotFound(err))

	// commit makes it durable
	assert.Nil(t, db.Commit())
	got, err = store.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, got)

	// deletion shadows the persisted value until committed
	assert.Nil(t, db.Delete(key))
	_, err = db.Get(key)
	assert.True(t, db.IsNotFound(err))

	has, err := store.Has(key)
	assert.Nil(t, err)
	assert.True(t, has)

	assert.Nil(t, db.Commit())
	has, err = store.Has(key)
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestOverlayDBDiscard(t *testing.T) {
	store, _ := lvldb.OpenMem()
	defer store.Close()

	db := New(store)

	assert.Nil(t, db.Put([]byte("k"), []byte("v")))
	db.Discard()

	_, err := db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))
}

func TestOverlayDBKeys(t *testing.T) {
	store, _ := lvldb.OpenMem()
	defer store.Close()

	assert.Nil(t, store.Put([]byte("disk"), []byte("1")))

	db := New(store)
	assert.Nil(t, db.Put([]byte("mem"), []byte("2")))
	assert.Nil(t, db.Delete([]byte("disk")))

	keys := db.Keys()
	_, hasMem := keys["mem"]
	_, hasDisk := keys["disk"]
	assert.True(t, hasMem)
	assert.False(t, hasDisk)
}

func TestOverlayDBBatch(t *testing.T) {
	store, _ := lvldb.OpenMem()
	defer store.Close()

	db := New(store)

	batch := db.NewBatch()
	assert.Nil(t, batch.Put([]byte("a"), []byte("1")))
	assert.Nil(t, batch.Put([]byte("b"), []byte("2")))
	assert.True(t, batch.ValueSize() > 0)

	// nothing visible until batch write
	_, err := db.Get([]byte("a"))
	assert.True(t, db.IsNotFound(err))

	assert.Nil(t, batch.Write())

	got, err := db.Get([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), got)

	batch.Reset()
	assert.Equal(t, 0, batch.ValueSize())
}
