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

package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamwatch/types"
)

func TestNewConfigValidation(t *testing.T) {
	cfg := types.DefaultConfig().Generator
	_, err := New(cfg)
	require.NoError(t, err)

	bad := cfg
	bad.AnomalyProbability = 2
	_, err = New(bad)
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))

	bad = cfg
	bad.SeasonalityPeriod = -1
	_, err = New(bad)
	assert.True(t, types.IsConfigError(err))
}

// 相同配置和种子的两个实例产生完全一致的序列
func TestDeterminism(t *testing.T) {
	cfg := types.DefaultConfig().Generator
	cfg.Seed = 12345

	a, err := New(cfg)
	require.NoError(t, err)
	b, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(), b.Next(), "第%d个样本不一致", i)
	}
	assert.Equal(t, int64(1000), a.Index())
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cfg := types.DefaultConfig().Generator
	cfg.Seed = 1
	a, err := New(cfg)
	require.NoError(t, err)
	cfg.Seed = 2
	b, err := New(cfg)
	require.NoError(t, err)

	same := true
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	assert.False(t, same, "不同种子应产生不同序列")
}

// 关掉噪声和异常注入后，序列就是纯的季节+趋势
func TestSignalComposition(t *testing.T) {
	cfg := types.GeneratorConfig{
		SeasonalityPeriod:  40,
		SeasonalAmplitude:  5,
		TrendSlope:         0.25,
		NoiseStddev:        0,
		AnomalyProbability: 0,
		Seed:               7,
	}
	g, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 120; i++ {
		want := 5*math.Sin(2*math.Pi*float64(i)/40) + 0.25*float64(i)
		assert.InDelta(t, want, g.Next(), 1e-12, "第%d个样本", i)
	}
}

// 概率为1且噪声为0时，每个样本都偏离基线恰好[min,max]内的幅度
func TestAnomalyInjection(t *testing.T) {
	cfg := types.GeneratorConfig{
		SeasonalityPeriod:   100,
		SeasonalAmplitude:   0,
		TrendSlope:          0,
		NoiseStddev:         0,
		AnomalyProbability:  1,
		AnomalyMinMagnitude: 10,
		AnomalyMaxMagnitude: 20,
		Seed:                3,
	}
	g, err := New(cfg)
	require.NoError(t, err)

	sawPositive, sawNegative := false, false
	for i := 0; i < 200; i++ {
		v := g.Next()
		mag := math.Abs(v)
		assert.GreaterOrEqual(t, mag, 10.0)
		assert.Less(t, mag, 20.0)
		if v > 0 {
			sawPositive = true
		} else {
			sawNegative = true
		}
	}
	// 符号是随机的，两个方向都应出现
	assert.True(t, sawPositive)
	assert.True(t, sawNegative)
}

// 概率为0时从不注入尖峰
func TestNoInjectionAtZeroProbability(t *testing.T) {
	cfg := types.GeneratorConfig{
		SeasonalityPeriod:   100,
		NoiseStddev:         0,
		AnomalyProbability:  0,
		AnomalyMinMagnitude: 1000,
		AnomalyMaxMagnitude: 2000,
		Seed:                5,
	}
	g, err := New(cfg)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		assert.Equal(t, 0.0, g.Next())
	}
}
