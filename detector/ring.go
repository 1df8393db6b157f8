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

import "math"

// resyncInterval 增量统计量的重算周期，防止浮点误差累积
const resyncInterval = 1 << 16

// ring 固定容量的FIFO环形缓冲区，维护增量的和与平方和，
// 均值和方差的计算为O(1)。窗口由检测器实例独占，无锁。
type ring struct {
	data   []float64
	head   int // 最旧元素的索引
	count  int
	sum    float64
	sumsq  float64
	pushes int
}

func newRing(capacity int) *ring {
	return &ring{data: make([]float64, capacity)}
}

// Len 当前元素个数
func (r *ring) Len() int {
	return r.count
}

// Cap 窗口容量
func (r *ring) Cap() int {
	return len(r.data)
}

// Push 向队尾添加一个元素。窗口满时淘汰最旧的元素并返回它。
func (r *ring) Push(v float64) (evicted float64, ok bool) {
	if r.count == len(r.data) {
		evicted = r.data[r.head]
		ok = true
		r.data[r.head] = v
		r.head = (r.head + 1) % len(r.data)
		r.sum += v - evicted
		r.sumsq += v*v - evicted*evicted
	} else {
		r.data[(r.head+r.count)%len(r.data)] = v
		r.count++
		r.sum += v
		r.sumsq += v * v
	}
	r.pushes++
	if r.pushes%resyncInterval == 0 {
		r.resync()
	}
	return evicted, ok
}

// Mean 窗口均值，空窗口返回0
func (r *ring) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// StdDev 窗口总体标准差（除以n，不是n-1），空窗口返回0
func (r *ring) StdDev() float64 {
	if r.count == 0 {
		return 0
	}
	mean := r.sum / float64(r.count)
	variance := r.sumsq/float64(r.count) - mean*mean
	// 浮点舍入可能产生极小的负方差
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Values 按从旧到新的顺序返回窗口内容的副本
func (r *ring) Values() []float64 {
	out := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}

// resync 从窗口内容重算和与平方和，消除增量更新的累积漂移
func (r *ring) resync() {
	var sum, sumsq float64
	for i := 0; i < r.count; i++ {
		v := r.data[(r.head+i)%len(r.data)]
		sum += v
		sumsq += v * v
	}
	r.sum = sum
	r.sumsq = sumsq
}
