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

// Package detector 实现基于滚动窗口Z分数的单点异常检测。
//
// 检测器逐个消费样本，维护固定大小的尾随窗口，用窗口的总体均值和
// 标准差作为基线对新样本打分。窗口未满时处于预热阶段，不做判定。
// 被判定为异常的样本同样会进入窗口——这是有意的简化，连续的异常
// 最终会拉动基线，调用方需要知晓这一权衡。
package detector

import (
	"math"

	"github.com/spf13/cast"

	"github.com/rulego/streamwatch/types"
)

// RollingDetector 滚动Z分数异常检测器。
// 每个实例独占自己的窗口，多个实例之间没有任何共享状态。
// 非并发安全：检测器设计为单goroutine顺序消费。
type RollingDetector struct {
	cfg    types.DetectorConfig
	window *ring
	index  int64
}

// New 创建检测器。配置违反约束时返回types.ConfigError，不产生实例。
//
// 参数:
//   - cfg: 检测器配置，WindowSize和ZThreshold都必须为正
//
// 示例:
//
//	det, err := detector.New(types.DetectorConfig{WindowSize: 50, ZThreshold: 3.0})
func New(cfg types.DetectorConfig) (*RollingDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RollingDetector{
		cfg:    cfg,
		window: newRing(cfg.WindowSize),
	}, nil
}

// Ingest 消费一个样本并返回检测结果。
//
// 样本先经cast转换为float64，非数值、NaN或无穷大返回
// types.InvalidSampleError，窗口保持不变，后续样本不受污染。
//
// 窗口未满时为预热阶段：样本入窗，结果的ZScore为nil且不判异常。
// 窗口已满时，基线取追加当前样本之前的窗口（新样本不能影响
// 自己被检验的基线）：
//   - 标准差为0（恒定窗口）：样本不等于均值即为异常，否则ZScore为0；
//   - 否则 z = (value-mean)/stddev，|z|严格大于阈值判定为异常。
//
// 判定之后样本照常入窗，最旧的样本被FIFO淘汰。
func (d *RollingDetector) Ingest(value interface{}) (types.DetectionResult, error) {
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return types.DetectionResult{}, types.NewInvalidSampleError(value, "not a numeric value")
	}
	if math.IsNaN(v) {
		return types.DetectionResult{}, types.NewInvalidSampleError(value, "NaN is not a valid sample")
	}
	if math.IsInf(v, 0) {
		return types.DetectionResult{}, types.NewInvalidSampleError(value, "infinite value is not a valid sample")
	}

	result := types.DetectionResult{Index: d.index, Value: v}

	if d.window.Len() < d.cfg.WindowSize {
		// 预热阶段：历史不足，不判定
		d.window.Push(v)
		d.index++
		return result, nil
	}

	mean := d.window.Mean()
	stddev := d.window.StdDev()
	z := 0.0
	if stddev == 0 {
		// 恒定窗口：偏离平坦基线即为异常，避免除零
		result.IsAnomaly = v != mean
	} else {
		z = (v - mean) / stddev
		result.IsAnomaly = math.Abs(z) > d.cfg.ZThreshold
	}
	result.ZScore = &z

	d.window.Push(v)
	d.index++
	return result, nil
}

// Config 返回检测器配置
func (d *RollingDetector) Config() types.DetectorConfig {
	return d.cfg
}

// WindowLen 当前窗口内样本数
func (d *RollingDetector) WindowLen() int {
	return d.window.Len()
}

// WindowValues 按从旧到新顺序返回当前窗口内容的副本
func (d *RollingDetector) WindowValues() []float64 {
	return d.window.Values()
}

// SampleCount 已成功消费的样本总数
func (d *RollingDetector) SampleCount() int64 {
	return d.index
}
