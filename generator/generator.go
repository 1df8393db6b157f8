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

// Package generator 实现用于驱动和验证检测器的合成数据流生成器。
//
// 生成的序列由四部分叠加：正弦季节分量、线性趋势、高斯噪声，
// 以及按概率注入的大幅度尖峰。随机状态由实例持有的种子化
// rand.Rand独占，相同种子和配置产生逐位一致的序列。
package generator

import (
	"math"
	"math/rand"

	"github.com/rulego/streamwatch/types"
)

// StreamGenerator 确定性合成数据流生成器。
// 序列是惰性、无界且不可重置的：每次Next推进一步，
// 重新开始需要创建新实例。非并发安全。
type StreamGenerator struct {
	cfg   types.GeneratorConfig
	rng   *rand.Rand
	index int64
}

// New 创建生成器。配置违反约束时返回types.ConfigError。
//
// 示例:
//
//	gen, err := generator.New(types.DefaultConfig().Generator)
func New(cfg types.GeneratorConfig) (*StreamGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &StreamGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Next 产生下一个样本值。
//
// 随机流的消耗顺序是固定的：先噪声，再异常触发判定，
// 触发时才消耗幅度和符号两次抽取。顺序固定保证了
// 相同种子下整个序列可复现。
func (g *StreamGenerator) Next() float64 {
	seasonal := g.cfg.SeasonalAmplitude * math.Sin(2*math.Pi*float64(g.index)/float64(g.cfg.SeasonalityPeriod))
	trend := g.cfg.TrendSlope * float64(g.index)
	noise := g.rng.NormFloat64() * g.cfg.NoiseStddev
	value := seasonal + trend + noise

	if g.rng.Float64() < g.cfg.AnomalyProbability {
		magnitude := g.cfg.AnomalyMinMagnitude +
			g.rng.Float64()*(g.cfg.AnomalyMaxMagnitude-g.cfg.AnomalyMinMagnitude)
		if g.rng.Intn(2) == 1 {
			magnitude = -magnitude
		}
		value += magnitude
	}

	g.index++
	return value
}

// Index 已产生的样本数，也是下一个样本的序号
func (g *StreamGenerator) Index() int64 {
	return g.index
}

// Config 返回生成器配置
func (g *StreamGenerator) Config() types.GeneratorConfig {
	return g.cfg
}
