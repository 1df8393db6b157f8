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

// Package types 定义StreamWatch的核心数据类型：检测结果、配置和错误类型。
package types

// Result environment field names, shared by alert conditions and sinks.
const (
	FieldIndex     = "index"
	FieldValue     = "value"
	FieldIsAnomaly = "is_anomaly"
	FieldZScore    = "z_score"
)

// DetectionResult 单个样本的检测结果。
// ZScore在预热阶段（窗口未满）为nil，表示还没有足够的历史数据计算基线。
type DetectionResult struct {
	// Index 样本在流中的序号，从0开始单调递增
	Index int64 `json:"index" yaml:"index"`
	// Value 样本值
	Value float64 `json:"value" yaml:"value"`
	// IsAnomaly 是否被判定为异常
	IsAnomaly bool `json:"isAnomaly" yaml:"isAnomaly"`
	// ZScore 相对窗口基线的Z分数，预热阶段为nil
	ZScore *float64 `json:"zScore,omitempty" yaml:"zScore,omitempty"`
}

// AsMap converts the result to the flat environment used by alert
// conditions and generic sinks. ZScore maps to nil during warm-up.
func (r DetectionResult) AsMap() map[string]interface{} {
	env := map[string]interface{}{
		FieldIndex:     r.Index,
		FieldValue:     r.Value,
		FieldIsAnomaly: r.IsAnomaly,
	}
	if r.ZScore != nil {
		env[FieldZScore] = *r.ZScore
	} else {
		env[FieldZScore] = nil
	}
	return env
}

// Source 数值样本源。生成器和任何外部数据源都实现该接口，
// 检测器对任何Source的行为完全一致。
type Source interface {
	// Next 产生下一个样本值。序列是惰性且不可重置的。
	Next() float64
}

// Sink 检测结果的消费者回调。Sink不做任何算法决策，
// 只负责可视化、日志或持久化等输出侧工作。
type Sink func(result DetectionResult)
