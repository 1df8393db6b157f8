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

/*
Package streamwatch 是一个轻量级的流式异常检测引擎。

StreamWatch 用滚动窗口Z分数对连续数值流做单点异常检测，内置可复现的
合成数据流生成器（季节+趋势+噪声+注入尖峰）用于驱动和验证检测器，
并提供告警条件表达式、结果通道和多种输出Sink。

# 核心特性

• 滚动Z分数检测 - 固定大小FIFO窗口，总体均值/标准差基线，O(1)增量统计
• 预热语义 - 窗口未满不判定，结果的ZScore为nil
• 确定性生成器 - 种子化随机流，相同配置逐位复现
• 告警条件表达式 - 如 "is_anomaly && abs(z_score) > 4"
• 多种Sink - 控制台表格、SQLite持久化、WebSocket实时推送

# 入门示例

基本的检测流程：

	package main

	import (
		"context"
		"fmt"

		"github.com/rulego/streamwatch"
		"github.com/rulego/streamwatch/types"
	)

	func main() {
		sw := streamwatch.New(streamwatch.WithSeed(42))
		defer sw.Stop()

		sw.AddSink(func(res types.DetectionResult) {
			if res.IsAnomaly {
				fmt.Printf("anomaly at %d: %.2f (z=%.2f)\n", res.Index, res.Value, *res.ZScore)
			}
		})

		if err := sw.Run(context.Background(), 500); err != nil {
			panic(err)
		}
	}

检测器也可以直接对接任何外部数值源：

	sw := streamwatch.New()
	sw.Start()
	result, err := sw.EmitSync(reading)

# 架构

生成器产出样本，检测器逐个消费并输出结果，Sink只做展示和落盘：

	generator -> detector -> sinks (console / sqlite / websocket)

三者之间只有单值传递契约，检测器对任何数值源行为一致。
*/
package streamwatch
