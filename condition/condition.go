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

// Package condition 提供基于表达式的告警条件求值。
//
// 告警条件是一个布尔表达式，针对检测结果的环境求值，可用字段：
// index、value、is_anomaly、z_score（预热阶段为nil）。例如：
//
//	is_anomaly && abs(z_score) > 4
//	value > 100 || is_anomaly
package condition

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition 告警条件接口
type Condition interface {
	// Evaluate 对给定环境求值，求值失败按不满足处理
	Evaluate(env interface{}) bool
}

// ExprCondition 基于expr-lang编译执行的告警条件
type ExprCondition struct {
	program *vm.Program
}

// NewExprCondition 编译告警条件表达式。
// 允许未定义变量（z_score在预热阶段不存在），表达式必须是布尔结果。
func NewExprCondition(expression string) (Condition, error) {
	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, err
	}
	return &ExprCondition{program: program}, nil
}

// Evaluate 求值。运行错误（如对nil的z_score取abs）按false处理，
// 不中断流处理。
func (ec *ExprCondition) Evaluate(env interface{}) bool {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
