/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package detector

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingPushAndEvict(t *testing.T) {
	r := newRing(3)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, r.Cap())

	_, evicted := r.Push(1)
	assert.False(t, evicted)
	r.Push(2)
	r.Push(3)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []float64{1, 2, 3}, r.Values())

	// 满窗口时每次追加恰好淘汰一个最旧元素
	old, evicted := r.Push(4)
	assert.True(t, evicted)
	assert.Equal(t, 1.0, old)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []float64{2, 3, 4}, r.Values())

	old, _ = r.Push(5)
	assert.Equal(t, 2.0, old)
	assert.Equal(t, []float64{3, 4, 5}, r.Values())
}

func TestRingStats(t *testing.T) {
	r := newRing(4)
	assert.Equal(t, 0.0, r.Mean())
	assert.Equal(t, 0.0, r.StdDev())

	for _, v := range []float64{2, 4, 4, 4} {
		r.Push(v)
	}
	// mean = 3.5, population variance = (2.25+0.25*3)/4 = 0.75
	assert.InDelta(t, 3.5, r.Mean(), 1e-12)
	assert.InDelta(t, math.Sqrt(0.75), r.StdDev(), 1e-12)

	// 恒定窗口的标准差为0
	c := newRing(3)
	for i := 0; i < 5; i++ {
		c.Push(7)
	}
	assert.Equal(t, 7.0, c.Mean())
	assert.Equal(t, 0.0, c.StdDev())
}

// 增量统计必须和直接计算在浮点容差内一致
func TestRingIncrementalMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	r := newRing(50)
	for i := 0; i < 5000; i++ {
		r.Push(rng.NormFloat64()*10 + 100)
		if i%97 != 0 {
			continue
		}
		values := r.Values()
		require.NotEmpty(t, values)
		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(len(values))
		var variance float64
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		variance /= float64(len(values))
		assert.InDelta(t, mean, r.Mean(), 1e-9)
		assert.InDelta(t, math.Sqrt(variance), r.StdDev(), 1e-9)
	}
}

func TestRingResync(t *testing.T) {
	r := newRing(8)
	for i := 0; i < resyncInterval+10; i++ {
		r.Push(float64(i % 13))
	}
	values := r.Values()
	var sum float64
	for _, v := range values {
		sum += v
	}
	assert.InDelta(t, sum/float64(len(values)), r.Mean(), 1e-12)
}
