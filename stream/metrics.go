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

package stream

import (
	"sync/atomic"
)

// Statistics field constants
const (
	InputCount    = "input_count"
	OutputCount   = "output_count"
	DroppedCount  = "dropped_count"
	InvalidCount  = "invalid_count"
	AnomalyCount  = "anomaly_count"
	DataChanLen   = "data_chan_len"
	DataChanCap   = "data_chan_cap"
	ResultChanLen = "result_chan_len"
	ResultChanCap = "result_chan_cap"
)

// Detailed statistics field constants
const (
	BasicStats       = "basic_stats"
	DataChanUsage    = "data_chan_usage"
	ProcessRate      = "process_rate"
	DropRate         = "drop_rate"
	AnomalyRate      = "anomaly_rate"
	PerformanceLevel = "performance_level"
)

// Performance level constants
const (
	PerformanceLevelCritical     = "CRITICAL"
	PerformanceLevelWarning      = "WARNING"
	PerformanceLevelHighLoad     = "HIGH_LOAD"
	PerformanceLevelModerateLoad = "MODERATE_LOAD"
	PerformanceLevelOptimal      = "OPTIMAL"
)

// AssessPerformanceLevel evaluates current performance level
// based on data channel usage rate and drop rate.
func AssessPerformanceLevel(dataUsage, dropRate float64) string {
	switch {
	case dropRate > 50:
		return PerformanceLevelCritical
	case dropRate > 20:
		return PerformanceLevelWarning
	case dataUsage > 90:
		return PerformanceLevelHighLoad
	case dataUsage > 70:
		return PerformanceLevelModerateLoad
	default:
		return PerformanceLevelOptimal
	}
}

// StatsCollector thread-safe pipeline statistics collector
type StatsCollector struct {
	inputCount   int64
	outputCount  int64
	droppedCount int64
	invalidCount int64
	anomalyCount int64
}

// NewStatsCollector creates a new statistics collector
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// AddInput 输入样本计数加一
func (s *StatsCollector) AddInput() {
	atomic.AddInt64(&s.inputCount, 1)
}

// AddOutput 成功产出结果计数加一
func (s *StatsCollector) AddOutput() {
	atomic.AddInt64(&s.outputCount, 1)
}

// AddDropped 因缓冲区满被丢弃的样本计数加一
func (s *StatsCollector) AddDropped() {
	atomic.AddInt64(&s.droppedCount, 1)
}

// AddInvalid 非法样本计数加一
func (s *StatsCollector) AddInvalid() {
	atomic.AddInt64(&s.invalidCount, 1)
}

// AddAnomaly 异常判定计数加一
func (s *StatsCollector) AddAnomaly() {
	atomic.AddInt64(&s.anomalyCount, 1)
}

// Snapshot returns current counter values
func (s *StatsCollector) Snapshot() map[string]int64 {
	return map[string]int64{
		InputCount:   atomic.LoadInt64(&s.inputCount),
		OutputCount:  atomic.LoadInt64(&s.outputCount),
		DroppedCount: atomic.LoadInt64(&s.droppedCount),
		InvalidCount: atomic.LoadInt64(&s.invalidCount),
		AnomalyCount: atomic.LoadInt64(&s.anomalyCount),
	}
}
