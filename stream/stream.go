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

// Package stream 实现检测管道：输入缓冲、检测器串行消费、
// 结果向Sink的扇出以及运行统计。
//
// 检测器由处理goroutine独占，样本严格按到达顺序消费。
// Sink回调通过工作池异步执行，慢的Sink不会阻塞检测。
package stream

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rulego/streamwatch/condition"
	"github.com/rulego/streamwatch/detector"
	"github.com/rulego/streamwatch/logger"
	"github.com/rulego/streamwatch/types"
)

// Stream 检测管道
type Stream struct {
	detector   *detector.RollingDetector
	dataChan   chan interface{}
	resultChan chan types.DetectionResult
	alert      condition.Condition

	sinks      []types.Sink
	alertSinks []types.Sink
	sinksMux   sync.RWMutex

	// 检测器串行访问保护：处理goroutine和ProcessSync互斥
	detMux sync.Mutex

	sinkJobs chan func()
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	stats *StatsCollector
	cfg   types.PipelineConfig
}

// NewStream 创建检测管道。配置非法返回types.ConfigError。
func NewStream(detCfg types.DetectorConfig, pipeCfg types.PipelineConfig) (*Stream, error) {
	if err := pipeCfg.Validate(); err != nil {
		return nil, err
	}
	det, err := detector.New(detCfg)
	if err != nil {
		return nil, err
	}
	return &Stream{
		detector:   det,
		dataChan:   make(chan interface{}, pipeCfg.DataBufferSize),
		resultChan: make(chan types.DetectionResult, pipeCfg.ResultBufferSize),
		sinkJobs:   make(chan func(), pipeCfg.SinkPoolSize),
		done:       make(chan struct{}),
		stats:      NewStatsCollector(),
		cfg:        pipeCfg,
	}, nil
}

// RegisterAlertCondition 注册告警条件表达式。
// 空表达式表示不设告警条件。注册后通过AddAlertSink挂接的Sink
// 只在条件满足时触发。
func (s *Stream) RegisterAlertCondition(expression string) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	cond, err := condition.NewExprCondition(expression)
	if err != nil {
		return err
	}
	s.alert = cond
	return nil
}

// AddSink 注册一个接收全部检测结果的Sink
func (s *Stream) AddSink(sink types.Sink) {
	s.sinksMux.Lock()
	defer s.sinksMux.Unlock()
	s.sinks = append(s.sinks, sink)
}

// AddAlertSink 注册一个只在告警条件满足时触发的Sink。
// 未注册告警条件时退化为IsAnomaly判断。
func (s *Stream) AddAlertSink(sink types.Sink) {
	s.sinksMux.Lock()
	defer s.sinksMux.Unlock()
	s.alertSinks = append(s.alertSinks, sink)
}

// Start 启动处理goroutine和Sink工作池。重复调用无效果。
func (s *Stream) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < s.cfg.SinkPoolSize; i++ {
		go s.sinkWorker()
	}
	go s.process()
	logger.Debug("stream started, buffer=%d strategy=%s", s.cfg.DataBufferSize, s.cfg.OverflowStrategy)
}

// Emit 向管道提交一个样本。
// 缓冲区满时按配置的溢出策略处理：drop直接丢弃并计数，
// block阻塞等待（可配超时，超时按丢弃计）。
func (s *Stream) Emit(value interface{}) {
	s.stats.AddInput()
	switch s.cfg.OverflowStrategy {
	case types.OverflowBlock:
		if s.cfg.BlockingTimeout > 0 {
			timer := time.NewTimer(s.cfg.BlockingTimeout)
			defer timer.Stop()
			select {
			case s.dataChan <- value:
			case <-timer.C:
				s.stats.AddDropped()
				logger.Warn("emit timed out after %v, sample dropped", s.cfg.BlockingTimeout)
			case <-s.done:
			}
		} else {
			select {
			case s.dataChan <- value:
			case <-s.done:
			}
		}
	default: // drop
		select {
		case s.dataChan <- value:
		default:
			s.stats.AddDropped()
		}
	}
}

// ProcessSync 同步处理一个样本并立即返回结果。
// 与异步管道共享同一个检测器和窗口，两条路径互斥，
// 结果同样计入统计并派发给Sink。
func (s *Stream) ProcessSync(value interface{}) (types.DetectionResult, error) {
	s.stats.AddInput()
	result, err := s.ingest(value)
	if err != nil {
		return types.DetectionResult{}, err
	}
	s.dispatch(result)
	return result, nil
}

// GetResultsChan 返回结果通道。
// 必须有消费者持续读取，通道满时新结果被丢弃而不是阻塞检测。
func (s *Stream) GetResultsChan() <-chan types.DetectionResult {
	return s.resultChan
}

// GetStats 获取运行计数
func (s *Stream) GetStats() map[string]int64 {
	stats := s.stats.Snapshot()
	stats[DataChanLen] = int64(len(s.dataChan))
	stats[DataChanCap] = int64(cap(s.dataChan))
	stats[ResultChanLen] = int64(len(s.resultChan))
	stats[ResultChanCap] = int64(cap(s.resultChan))
	return stats
}

// GetDetailedStats 获取包含比率和性能评估的详细统计
func (s *Stream) GetDetailedStats() map[string]interface{} {
	basic := s.GetStats()

	dataUsage := float64(basic[DataChanLen]) / float64(basic[DataChanCap]) * 100
	var processRate, dropRate, anomalyRate float64
	if basic[InputCount] > 0 {
		processRate = float64(basic[OutputCount]) / float64(basic[InputCount]) * 100
		dropRate = float64(basic[DroppedCount]) / float64(basic[InputCount]) * 100
	}
	if basic[OutputCount] > 0 {
		anomalyRate = float64(basic[AnomalyCount]) / float64(basic[OutputCount]) * 100
	}

	return map[string]interface{}{
		BasicStats:       basic,
		DataChanUsage:    dataUsage,
		ProcessRate:      processRate,
		DropRate:         dropRate,
		AnomalyRate:      anomalyRate,
		PerformanceLevel: AssessPerformanceLevel(dataUsage, dropRate),
	}
}

// Detector 返回底层检测器实例
func (s *Stream) Detector() *detector.RollingDetector {
	return s.detector
}

// Stop 停止管道，释放处理goroutine和工作池。幂等。
func (s *Stream) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}

// process 处理goroutine主循环，检测器的唯一异步消费者
func (s *Stream) process() {
	for {
		select {
		case value := <-s.dataChan:
			result, err := s.ingest(value)
			if err != nil {
				continue
			}
			s.dispatch(result)
		case <-s.done:
			return
		}
	}
}

// ingest 带统计的检测器调用，非法样本计数并告警日志
func (s *Stream) ingest(value interface{}) (types.DetectionResult, error) {
	s.detMux.Lock()
	result, err := s.detector.Ingest(value)
	s.detMux.Unlock()
	if err != nil {
		s.stats.AddInvalid()
		logger.Warn("sample rejected: %v", err)
		return types.DetectionResult{}, err
	}
	s.stats.AddOutput()
	if result.IsAnomaly {
		s.stats.AddAnomaly()
	}
	return result, nil
}

// dispatch 把结果推进结果通道并扇出到Sink
func (s *Stream) dispatch(result types.DetectionResult) {
	// 结果通道满时丢弃，保证检测不被下游消费者阻塞
	select {
	case s.resultChan <- result:
	default:
	}

	s.sinksMux.RLock()
	sinks := make([]types.Sink, len(s.sinks))
	copy(sinks, s.sinks)
	alertSinks := make([]types.Sink, len(s.alertSinks))
	copy(alertSinks, s.alertSinks)
	s.sinksMux.RUnlock()

	fireAlert := len(alertSinks) > 0 && s.alertFired(result)
	job := func() {
		for _, sink := range sinks {
			sink(result)
		}
		if fireAlert {
			for _, sink := range alertSinks {
				sink(result)
			}
		}
	}

	// 管道未启动（纯同步使用）或工作池满时内联执行，不丢结果
	if !s.started.Load() {
		job()
		return
	}
	select {
	case s.sinkJobs <- job:
	default:
		job()
	}
}

// alertFired 判断结果是否触发告警
func (s *Stream) alertFired(result types.DetectionResult) bool {
	if s.alert == nil {
		return result.IsAnomaly
	}
	return s.alert.Evaluate(result.AsMap())
}

// sinkWorker Sink工作池的单个worker
func (s *Stream) sinkWorker() {
	for {
		select {
		case job := <-s.sinkJobs:
			job()
		case <-s.done:
			return
		}
	}
}
