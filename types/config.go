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

package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values. The detector and generator defaults
// mirror the reference simulation profile.
const (
	DefaultWindowSize         = 50
	DefaultZThreshold         = 3.0
	DefaultSeasonalityPeriod  = 100
	DefaultSeasonalAmplitude  = 10.0
	DefaultTrendSlope         = 0.05
	DefaultNoiseStddev        = 0.6
	DefaultAnomalyProbability = 0.1
	DefaultAnomalyMinMag      = 10.0
	DefaultAnomalyMaxMag      = 20.0

	DefaultDataBufferSize   = 1024
	DefaultResultBufferSize = 1024
	DefaultSinkPoolSize     = 64
)

// Overflow strategies for the pipeline data channel.
const (
	OverflowDrop  = "drop"
	OverflowBlock = "block"
)

// DetectorConfig 滚动Z分数检测器配置
type DetectorConfig struct {
	// WindowSize 滚动窗口大小，必须为正整数
	WindowSize int `json:"windowSize" yaml:"windowSize"`
	// ZThreshold Z分数阈值，必须为正数，超过该阈值（严格大于）判定为异常
	ZThreshold float64 `json:"zThreshold" yaml:"zThreshold"`
}

// Validate 校验检测器配置约束
func (c DetectorConfig) Validate() error {
	if c.WindowSize <= 0 {
		return NewConfigError("windowSize", "must be a positive integer, got %d", c.WindowSize)
	}
	if c.ZThreshold <= 0 {
		return NewConfigError("zThreshold", "must be positive, got %v", c.ZThreshold)
	}
	return nil
}

// GeneratorConfig 合成数据流生成器配置
type GeneratorConfig struct {
	// SeasonalityPeriod 季节分量周期（每个周期的样本数），必须为正整数
	SeasonalityPeriod int `json:"seasonalityPeriod" yaml:"seasonalityPeriod"`
	// SeasonalAmplitude 季节分量振幅
	SeasonalAmplitude float64 `json:"seasonalAmplitude" yaml:"seasonalAmplitude"`
	// TrendSlope 线性趋势斜率，每步增加的值
	TrendSlope float64 `json:"trendSlope" yaml:"trendSlope"`
	// NoiseStddev 高斯噪声标准差，必须非负
	NoiseStddev float64 `json:"noiseStddev" yaml:"noiseStddev"`
	// AnomalyProbability 每个样本注入异常尖峰的概率，取值[0,1]
	AnomalyProbability float64 `json:"anomalyProbability" yaml:"anomalyProbability"`
	// AnomalyMinMagnitude 注入尖峰的最小幅度
	AnomalyMinMagnitude float64 `json:"anomalyMinMagnitude" yaml:"anomalyMinMagnitude"`
	// AnomalyMaxMagnitude 注入尖峰的最大幅度，必须不小于最小幅度
	AnomalyMaxMagnitude float64 `json:"anomalyMaxMagnitude" yaml:"anomalyMaxMagnitude"`
	// Seed 随机种子，相同种子和配置产生完全相同的序列
	Seed int64 `json:"seed" yaml:"seed"`
}

// Validate 校验生成器配置约束
func (c GeneratorConfig) Validate() error {
	if c.SeasonalityPeriod <= 0 {
		return NewConfigError("seasonalityPeriod", "must be a positive integer, got %d", c.SeasonalityPeriod)
	}
	if c.NoiseStddev < 0 {
		return NewConfigError("noiseStddev", "must be non-negative, got %v", c.NoiseStddev)
	}
	if c.AnomalyProbability < 0 || c.AnomalyProbability > 1 {
		return NewConfigError("anomalyProbability", "must be in [0,1], got %v", c.AnomalyProbability)
	}
	if c.AnomalyMinMagnitude > c.AnomalyMaxMagnitude {
		return NewConfigError("anomalyMagnitudeRange", "min %v greater than max %v",
			c.AnomalyMinMagnitude, c.AnomalyMaxMagnitude)
	}
	return nil
}

// PipelineConfig 流处理管道配置
type PipelineConfig struct {
	// DataBufferSize 数据输入通道缓冲区大小
	DataBufferSize int `json:"dataBufferSize" yaml:"dataBufferSize"`
	// ResultBufferSize 结果输出通道缓冲区大小
	ResultBufferSize int `json:"resultBufferSize" yaml:"resultBufferSize"`
	// SinkPoolSize Sink工作池大小
	SinkPoolSize int `json:"sinkPoolSize" yaml:"sinkPoolSize"`
	// OverflowStrategy 输入缓冲区满时的策略："drop"或"block"
	OverflowStrategy string `json:"overflowStrategy" yaml:"overflowStrategy"`
	// BlockingTimeout block策略下的等待超时，0表示无限等待
	BlockingTimeout time.Duration `json:"blockingTimeout" yaml:"blockingTimeout"`
}

// Validate 校验管道配置约束
func (c PipelineConfig) Validate() error {
	if c.DataBufferSize <= 0 {
		return NewConfigError("dataBufferSize", "must be positive, got %d", c.DataBufferSize)
	}
	if c.ResultBufferSize <= 0 {
		return NewConfigError("resultBufferSize", "must be positive, got %d", c.ResultBufferSize)
	}
	if c.SinkPoolSize <= 0 {
		return NewConfigError("sinkPoolSize", "must be positive, got %d", c.SinkPoolSize)
	}
	switch c.OverflowStrategy {
	case OverflowDrop, OverflowBlock:
	default:
		return NewConfigError("overflowStrategy", "must be %q or %q, got %q",
			OverflowDrop, OverflowBlock, c.OverflowStrategy)
	}
	return nil
}

// Config StreamWatch整体配置
type Config struct {
	Detector  DetectorConfig  `json:"detector" yaml:"detector"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Pipeline  PipelineConfig  `json:"pipeline" yaml:"pipeline"`
	// AlertCondition 可选的告警条件表达式，如 "is_anomaly && abs(z_score) > 4"
	AlertCondition string `json:"alertCondition,omitempty" yaml:"alertCondition,omitempty"`
}

// Validate 校验整体配置
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Generator.Validate(); err != nil {
		return err
	}
	return c.Pipeline.Validate()
}

// DefaultConfig 返回默认配置。
// 检测器和生成器参数与参考仿真保持一致。
func DefaultConfig() Config {
	return Config{
		Detector: DetectorConfig{
			WindowSize: DefaultWindowSize,
			ZThreshold: DefaultZThreshold,
		},
		Generator: GeneratorConfig{
			SeasonalityPeriod:   DefaultSeasonalityPeriod,
			SeasonalAmplitude:   DefaultSeasonalAmplitude,
			TrendSlope:          DefaultTrendSlope,
			NoiseStddev:         DefaultNoiseStddev,
			AnomalyProbability:  DefaultAnomalyProbability,
			AnomalyMinMagnitude: DefaultAnomalyMinMag,
			AnomalyMaxMagnitude: DefaultAnomalyMaxMag,
			Seed:                1,
		},
		Pipeline: PipelineConfig{
			DataBufferSize:   DefaultDataBufferSize,
			ResultBufferSize: DefaultResultBufferSize,
			SinkPoolSize:     DefaultSinkPoolSize,
			OverflowStrategy: OverflowDrop,
		},
	}
}

// LoadConfig 从YAML文件加载配置。
// 文件中省略的字段使用默认值，加载后立即校验。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
