// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/corvuschain/corvus/metrics"

var (
	metricAccountLookups = metrics.LazyLoadCounterVec("state_account_lookup_count", []string{"result"})
	metricCacheEvictions = metrics.LazyLoadCounter("state_cache_eviction_count")
	metricCommitDuration = metrics.LazyLoadHistogram("state_commit_duration_ms", metrics.Bucket10s)
)
