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
	"context"
	"fmt"
	"os"

	"github.com/rulego/streamwatch/generator"
	"github.com/rulego/streamwatch/stream"
	"github.com/rulego/streamwatch/types"
	"github.com/rulego/streamwatch/utils/table"
)

// Streamwatch 是流式异常检测引擎的主要接口。
// 它封装了检测管道、合成数据源和输出Sink的装配。
//
// 使用示例:
//
//	sw := streamwatch.New(streamwatch.WithWindowSize(30))
//	sw.AddSink(func(res types.DetectionResult) { fmt.Println(res) })
//	sw.Run(context.Background(), 500)
type Streamwatch struct {
	cfg    types.Config
	stream *stream.Stream
	gen    *generator.StreamGenerator

	// Start之前注册的Sink先暂存，启动时挂到管道上
	pendingSinks      []types.Sink
	pendingAlertSinks []types.Sink
}

// New 创建一个新的StreamWatch实例。
// 配置从默认值出发，通过可选的Option参数调整。
// 配置错误在Start或Run时返回。
//
// 示例:
//
//	// 默认配置
//	sw := streamwatch.New()
//
//	// 自定义窗口和阈值
//	sw := streamwatch.New(streamwatch.WithWindowSize(30), streamwatch.WithZThreshold(2.5))
func New(options ...Option) *Streamwatch {
	s := &Streamwatch{cfg: types.DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	return s
}

// NewFromFile 从YAML配置文件创建实例，Option在文件配置之上生效。
func NewFromFile(path string, options ...Option) (*Streamwatch, error) {
	cfg, err := types.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	s := &Streamwatch{cfg: cfg}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Start 按当前配置构建并启动检测管道。
// 配置非法返回types.ConfigError，告警表达式编译失败返回编译错误。
// 重复调用无效果。
func (s *Streamwatch) Start() error {
	if s.stream != nil {
		return nil
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	st, err := stream.NewStream(s.cfg.Detector, s.cfg.Pipeline)
	if err != nil {
		return err
	}
	if err := st.RegisterAlertCondition(s.cfg.AlertCondition); err != nil {
		return fmt.Errorf("compile alert condition: %w", err)
	}
	for _, sink := range s.pendingSinks {
		st.AddSink(sink)
	}
	for _, sink := range s.pendingAlertSinks {
		st.AddAlertSink(sink)
	}
	s.pendingSinks, s.pendingAlertSinks = nil, nil
	s.stream = st
	st.Start()
	return nil
}

// Run 用内置生成器驱动检测器，同步跑steps步。
// steps<=0表示一直运行到ctx取消。未启动时自动Start。
// 生成器在首次Run时按配置创建，多次Run继续同一条序列。
//
// 参数:
//   - ctx: 取消信号，每步之间检查
//   - steps: 样本数，<=0表示无界
func (s *Streamwatch) Run(ctx context.Context, steps int) error {
	if err := s.Start(); err != nil {
		return err
	}
	if s.gen == nil {
		gen, err := generator.New(s.cfg.Generator)
		if err != nil {
			return err
		}
		s.gen = gen
	}
	for i := 0; steps <= 0 || i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := s.stream.ProcessSync(s.gen.Next()); err != nil {
			return err
		}
	}
	return nil
}

// Emit 异步提交一个外部样本。未Start时样本被忽略。
func (s *Streamwatch) Emit(value interface{}) {
	if s.stream != nil {
		s.stream.Emit(value)
	}
}

// EmitSync 同步处理一个外部样本并立即返回检测结果。
//
// 示例:
//
//	result, err := sw.EmitSync(25.5)
//	if err != nil {
//	    // 非法样本，检测器状态未变，可跳过或修正后重试
//	}
func (s *Streamwatch) EmitSync(value interface{}) (types.DetectionResult, error) {
	if s.stream == nil {
		return types.DetectionResult{}, fmt.Errorf("streamwatch not started")
	}
	return s.stream.ProcessSync(value)
}

// AddSink 注册一个接收全部检测结果的Sink。
// Start之前注册的Sink在启动时生效。
//
// 示例:
//
//	sw.AddSink(func(res types.DetectionResult) {
//	    saveToDatabase(res)
//	})
func (s *Streamwatch) AddSink(sink types.Sink) {
	if s.stream != nil {
		s.stream.AddSink(sink)
		return
	}
	s.pendingSinks = append(s.pendingSinks, sink)
}

// AddAlertSink 注册一个只在告警条件满足时触发的Sink。
// 未配置告警条件时按IsAnomaly触发。
func (s *Streamwatch) AddAlertSink(sink types.Sink) {
	if s.stream != nil {
		s.stream.AddAlertSink(sink)
		return
	}
	s.pendingAlertSinks = append(s.pendingAlertSinks, sink)
}

// ToChannel 返回结果通道，用于异步消费检测结果。
// 必须有消费者持续读取，通道满时新结果被丢弃。
// 未Start时返回nil。
func (s *Streamwatch) ToChannel() <-chan types.DetectionResult {
	if s.stream != nil {
		return s.stream.GetResultsChan()
	}
	return nil
}

// PrintTable 注册一个把检测结果打印成表格的控制台Sink。
//
// 输出格式:
//
//	+-------+---------+---------+------------+
//	| index | value   | z_score | is_anomaly |
//	+-------+---------+---------+------------+
//	| 51    | 99.1230 | 4.2000  | true       |
//	+-------+---------+---------+------------+
func (s *Streamwatch) PrintTable() {
	s.AddSink(func(res types.DetectionResult) {
		table.FprintResults(os.Stdout, []types.DetectionResult{res})
	})
}

// GetStats 获取管道运行计数
func (s *Streamwatch) GetStats() map[string]int64 {
	if s.stream != nil {
		return s.stream.GetStats()
	}
	return make(map[string]int64)
}

// GetDetailedStats 获取包含比率和性能评估的详细统计
func (s *Streamwatch) GetDetailedStats() map[string]interface{} {
	if s.stream != nil {
		return s.stream.GetDetailedStats()
	}
	return make(map[string]interface{})
}

// Stream 返回底层管道实例，未Start时返回nil
func (s *Streamwatch) Stream() *stream.Stream {
	return s.stream
}

// Generator 返回内置生成器实例，首次Run之前为nil
func (s *Streamwatch) Generator() *generator.StreamGenerator {
	return s.gen
}

// Config 返回当前配置
func (s *Streamwatch) Config() types.Config {
	return s.cfg
}

// Stop 停止检测管道，释放相关资源。
// 停止后的实例不能重新启动，需要创建新实例。
func (s *Streamwatch) Stop() {
	if s.stream != nil {
		s.stream.Stop()
	}
}
