// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package corvus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	addr := BytesToAddress([]byte{1, 2, 3})
	assert.Equal(t, "0x0000000000000000000000000000000000010203", addr.String())
	assert.False(t, addr.IsZero())
	assert.True(t, Address{}.IsZero())

	parsed, err := ParseAddress(addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x123")
	assert.NotNil(t, err)
	_, err = ParseAddress("zz0000000000000000000000000000000010203a")
	assert.NotNil(t, err)

	// oversized input crops from the left
	long := make([]byte, 32)
	long[31] = 0xff
	assert.Equal(t, byte(0xff), BytesToAddress(long)[19])
}
