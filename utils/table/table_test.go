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

package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rulego/streamwatch/types"
)

func TestFprintResults(t *testing.T) {
	z := 4.2
	results := []types.DetectionResult{
		{Index: 0, Value: 10.5},
		{Index: 1, Value: 99.123, IsAnomaly: true, ZScore: &z},
	}

	var buf bytes.Buffer
	FprintResults(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "index")
	assert.Contains(t, out, "z_score")
	assert.Contains(t, out, "is_anomaly")
	assert.Contains(t, out, "99.1230")
	assert.Contains(t, out, "4.2000")
	assert.Contains(t, out, "true")
	// 预热阶段的z_score显示为占位符
	assert.Contains(t, out, " -")
	assert.Contains(t, out, "(2 rows)")
}

func TestFprintResultsEmpty(t *testing.T) {
	var buf bytes.Buffer
	FprintResults(&buf, nil)
	assert.Equal(t, "(0 rows)\n", buf.String())
}
