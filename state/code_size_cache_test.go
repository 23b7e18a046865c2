// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvuschain/corvus/corvus"
)

func TestCodeSizeCache(t *testing.T) {
	c := NewCodeSizeCache(4)

	h := corvus.Keccak256([]byte("code"))
	assert.False(t, c.Contains(h))

	c.Store(h, 42)
	assert.True(t, c.Contains(h))

	size, ok := c.Get(h)
	assert.True(t, ok)
	assert.Equal(t, 42, size)

	// bounded: old entries evict under pressure
	for i := 0; i < 10; i++ {
		c.Store(corvus.Keccak256([]byte{byte(i)}), i)
	}
	_, ok = c.Get(h)
	assert.False(t, ok)
}
