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

package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamwatch/types"
)

func TestExprCondition(t *testing.T) {
	cond, err := NewExprCondition("is_anomaly && abs(z_score) > 4")
	require.NoError(t, err)

	z := 5.2
	flagged := types.DetectionResult{Index: 10, Value: 99, IsAnomaly: true, ZScore: &z}
	assert.True(t, cond.Evaluate(flagged.AsMap()))

	mild := 3.1
	normal := types.DetectionResult{Index: 11, Value: 40, IsAnomaly: true, ZScore: &mild}
	assert.False(t, cond.Evaluate(normal.AsMap()))

	notAnomaly := types.DetectionResult{Index: 12, Value: 40, ZScore: &z}
	assert.False(t, cond.Evaluate(notAnomaly.AsMap()))
}

func TestExprConditionValueFields(t *testing.T) {
	cond, err := NewExprCondition("value > 100 && index >= 5")
	require.NoError(t, err)

	assert.True(t, cond.Evaluate(types.DetectionResult{Index: 5, Value: 150}.AsMap()))
	assert.False(t, cond.Evaluate(types.DetectionResult{Index: 2, Value: 150}.AsMap()))
	assert.False(t, cond.Evaluate(types.DetectionResult{Index: 9, Value: 50}.AsMap()))
}

// 预热阶段z_score为nil，求值失败按不满足处理
func TestExprConditionNilZScore(t *testing.T) {
	cond, err := NewExprCondition("abs(z_score) > 3")
	require.NoError(t, err)

	warm := types.DetectionResult{Index: 0, Value: 10}
	assert.False(t, cond.Evaluate(warm.AsMap()))
}

func TestExprConditionCompileError(t *testing.T) {
	_, err := NewExprCondition("is_anomaly &&& value")
	require.Error(t, err)
}

// 非布尔结果的表达式在编译期拒绝
func TestExprConditionMustBeBool(t *testing.T) {
	_, err := NewExprCondition("1 + 2")
	require.Error(t, err)
}
