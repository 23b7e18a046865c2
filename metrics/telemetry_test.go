// Copyright (c) 2026 The Corvus developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopDefault(t *testing.T) {
	assert.Nil(t, HTTPHandler())

	// meters on the noop backend are inert but usable
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "x"})
	Gauge("noop_gauge").Set(42)
	Histogram("noop_hist", Bucket10s).Observe(7)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	loader := LazyLoad(func() int {
		calls++
		return 99
	})

	assert.Equal(t, 99, loader())
	assert.Equal(t, 99, loader())
	assert.Equal(t, 1, calls, "loader must run once")
}

func TestPrometheusBackend(t *testing.T) {
	InitializePrometheusMetrics()

	assert.NotNil(t, HTTPHandler())

	counter := Counter("test_count")
	assert.NotNil(t, counter)
	counter.Add(1)

	vec := CounterVec("test_count_vec", []string{"kind"})
	vec.AddWithLabel(2, map[string]string{"kind": "a"})

	Gauge("test_gauge").Set(5)
	Histogram("test_hist", Bucket10s).Observe(100)

	// repeated lookups return the registered meter
	assert.Equal(t, counter, Counter("test_count"))
}
