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
	"errors"
	"fmt"
)

// ConfigError 配置约束违反错误。
// 构造检测器或生成器时配置非法会返回该错误，实例不会被创建。
type ConfigError struct {
	// Field 违反约束的配置项名称
	Field string
	// Message 约束说明
	Message string
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %q: %s", e.Field, e.Message)
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidSampleError 非法样本错误。
// Ingest收到非数值或非有限值时返回，检测器内部状态保持不变，
// 调用方可以修正后重试或跳过该样本，整个流不会中断。
type InvalidSampleError struct {
	// Value 引发错误的原始输入
	Value interface{}
	// Reason 拒绝原因
	Reason string
}

// Error 实现error接口
func (e *InvalidSampleError) Error() string {
	return fmt.Sprintf("invalid sample %v: %s", e.Value, e.Reason)
}

// NewInvalidSampleError creates an InvalidSampleError for the given input.
func NewInvalidSampleError(value interface{}, reason string) *InvalidSampleError {
	return &InvalidSampleError{Value: value, Reason: reason}
}

// IsConfigError 判断错误是否为配置错误
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsInvalidSample 判断错误是否为非法样本错误
func IsInvalidSample(err error) bool {
	var se *InvalidSampleError
	return errors.As(err, &se)
}
