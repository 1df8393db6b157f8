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

package streamwatch

import (
	"io"
	"time"

	"github.com/rulego/streamwatch/logger"
	"github.com/rulego/streamwatch/types"
)

// Option 表示对StreamWatch默认行为的修改配置。
// 通过函数式选项模式，用户可以灵活地配置各项行为。
type Option func(*Streamwatch)

// WithConfig 整体替换配置，后续Option在其之上生效。
//
// 示例:
//
//	cfg, _ := types.LoadConfig("streamwatch.yaml")
//	sw := streamwatch.New(streamwatch.WithConfig(cfg))
func WithConfig(cfg types.Config) Option {
	return func(s *Streamwatch) {
		s.cfg = cfg
	}
}

// WithDetectorConfig 替换检测器配置
func WithDetectorConfig(cfg types.DetectorConfig) Option {
	return func(s *Streamwatch) {
		s.cfg.Detector = cfg
	}
}

// WithGeneratorConfig 替换生成器配置
func WithGeneratorConfig(cfg types.GeneratorConfig) Option {
	return func(s *Streamwatch) {
		s.cfg.Generator = cfg
	}
}

// WithWindowSize 设置滚动窗口大小。
//
// 示例:
//
//	// 更短的窗口，对变化更敏感
//	sw := streamwatch.New(streamwatch.WithWindowSize(20))
func WithWindowSize(size int) Option {
	return func(s *Streamwatch) {
		s.cfg.Detector.WindowSize = size
	}
}

// WithZThreshold 设置Z分数阈值。
// 阈值越低越敏感，误报也越多。默认3.0。
func WithZThreshold(threshold float64) Option {
	return func(s *Streamwatch) {
		s.cfg.Detector.ZThreshold = threshold
	}
}

// WithSeed 设置生成器随机种子。
// 相同种子和配置产生完全一致的序列，用于可复现的测试和演示。
func WithSeed(seed int64) Option {
	return func(s *Streamwatch) {
		s.cfg.Generator.Seed = seed
	}
}

// WithAlertCondition 设置告警条件表达式。
// 可用字段：index、value、is_anomaly、z_score。
//
// 示例:
//
//	// 只对大幅偏离告警
//	sw := streamwatch.New(streamwatch.WithAlertCondition("is_anomaly && abs(z_score) > 4"))
func WithAlertCondition(expression string) Option {
	return func(s *Streamwatch) {
		s.cfg.AlertCondition = expression
	}
}

// WithBufferSizes 设置自定义缓冲区大小。
//
// 参数:
//   - dataBufSize: 数据通道缓冲区大小
//   - resultBufSize: 结果通道缓冲区大小
//   - sinkPoolSize: Sink工作池大小
func WithBufferSizes(dataBufSize, resultBufSize, sinkPoolSize int) Option {
	return func(s *Streamwatch) {
		s.cfg.Pipeline.DataBufferSize = dataBufSize
		s.cfg.Pipeline.ResultBufferSize = resultBufSize
		s.cfg.Pipeline.SinkPoolSize = sinkPoolSize
	}
}

// WithDropStrategy 缓冲区满时丢弃新样本（默认策略）。
// 保证Emit永不阻塞，适合对延迟敏感、可容忍少量丢样的场景。
func WithDropStrategy() Option {
	return func(s *Streamwatch) {
		s.cfg.Pipeline.OverflowStrategy = types.OverflowDrop
		s.cfg.Pipeline.BlockingTimeout = 0
	}
}

// WithBlockStrategy 缓冲区满时阻塞等待。
// 零丢样，但可能拖慢生产者。
//
// 参数:
//   - timeout: 等待超时，超时后按丢弃计；0表示无限等待
func WithBlockStrategy(timeout time.Duration) Option {
	return func(s *Streamwatch) {
		s.cfg.Pipeline.OverflowStrategy = types.OverflowBlock
		s.cfg.Pipeline.BlockingTimeout = timeout
	}
}

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	sw := streamwatch.New(streamwatch.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(s *Streamwatch) {
		logger.SetDefault(log)
	}
}

// WithLogLevel 设置日志级别。
//
// 示例:
//
//	sw := streamwatch.New(streamwatch.WithLogLevel(logger.DEBUG))
func WithLogLevel(level logger.Level) Option {
	return func(s *Streamwatch) {
		logger.GetDefault().SetLevel(level)
	}
}

// WithLogOutput 设置日志输出目标和级别。
//
// 示例:
//
//	logFile, _ := os.OpenFile("streamwatch.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
//	sw := streamwatch.New(streamwatch.WithLogOutput(logFile, logger.INFO))
func WithLogOutput(output io.Writer, level logger.Level) Option {
	return func(s *Streamwatch) {
		logger.SetDefault(logger.NewLogger(level, output))
	}
}

// WithDiscardLog 禁用所有日志输出。
// 适用于性能敏感或测试场景。
func WithDiscardLog() Option {
	return func(s *Streamwatch) {
		logger.SetDefault(logger.NewDiscardLogger())
	}
}
