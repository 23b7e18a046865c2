// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/gosigar"
	"github.com/inconshreveable/log15"

	"github.com/corvuschain/corvus/corvus"
	"github.com/corvuschain/corvus/lvldb"
	"github.com/corvuschain/corvus/overlaydb"
)

var log = log15.New("pkg", "state")

// WithExisting selects what to do with an existing state database.
type WithExisting int

const (
	// WithExistingTrust opens the database as is.
	WithExistingTrust WithExisting = iota
	// WithExistingKill removes the state database first.
	WithExistingKill
)

// minAvailableSpace below which an open failure is attributed to a full disk.
const minAvailableSpace = 1024

// OpenDB opens (creating if missing) the state database under
// <basePath>/<first 4 bytes of genesis hash>/<database version>/state and
// wraps it into an overlay.
func OpenDB(basePath string, genesisHash corvus.Bytes32, we WithExisting) (*overlaydb.OverlayDB, error) {
	path := filepath.Join(
		basePath,
		hex.EncodeToString(genesisHash[:4]),
		fmt.Sprintf("%d", corvus.DatabaseVersion),
		"state")

	if we == WithExistingKill {
		log.Info("killing state database", "path", path)
		if err := os.RemoveAll(path); err != nil {
			return nil, &Error{err}
		}
	}

	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, &Error{err}
	}

	store, err := lvldb.Open(path, lvldb.Options{
		OpenFiles: 256,
	})
	if err != nil {
		fsu := gosigar.FileSystemUsage{}
		if serr := fsu.Get(path); serr == nil && fsu.Avail < minAvailableSpace {
			log.Warn("not enough available space on hard drive, please free some up", "path", path)
			return nil, &Error{ErrNotEnoughAvailableSpace}
		}
		log.Warn("state database appears to be open by another instance", "path", path, "err", err)
		return nil, &Error{ErrDatabaseAlreadyOpen}
	}

	log.Debug("opened state database", "path", path)
	return overlaydb.NewCloser(store), nil
}
