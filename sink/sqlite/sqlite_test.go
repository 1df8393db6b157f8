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

package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/streamwatch/types"
)

func openTestSink(t *testing.T) *Sink {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRegistersRun(t *testing.T) {
	s := openTestSink(t)
	assert.NotEmpty(t, s.RunID())

	count, err := s.CountResults(false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestWriteAndFlush(t *testing.T) {
	s := openTestSink(t)

	z := 5.5
	s.Write(types.DetectionResult{Index: 0, Value: 10})
	s.Write(types.DetectionResult{Index: 1, Value: 99, IsAnomaly: true, ZScore: &z})
	require.NoError(t, s.Flush())

	total, err := s.CountResults(false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	anomalies, err := s.CountResults(true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), anomalies)
}

// 预热阶段的结果z_score持久化为NULL
func TestNullZScore(t *testing.T) {
	s := openTestSink(t)
	s.Write(types.DetectionResult{Index: 0, Value: 1})
	require.NoError(t, s.Flush())

	var nullCount int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM results WHERE run_id = ? AND z_score IS NULL", s.runID).Scan(&nullCount)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nullCount)
}

func TestBatchFlushOnThreshold(t *testing.T) {
	s := openTestSink(t)
	s.batchSize = 4
	for i := 0; i < 4; i++ {
		s.Write(types.DetectionResult{Index: int64(i), Value: float64(i)})
	}
	// 攒满一批后无需显式Flush
	count, err := s.CountResults(false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

// 同一次运行的同一序号重复写入不报错（INSERT OR REPLACE）
func TestRewriteSameIndex(t *testing.T) {
	s := openTestSink(t)
	s.Write(types.DetectionResult{Index: 7, Value: 1})
	require.NoError(t, s.Flush())
	s.Write(types.DetectionResult{Index: 7, Value: 2})
	require.NoError(t, s.Flush())

	count, err := s.CountResults(false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTwoRunsAreSeparate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.db")

	a, err := Open(path)
	require.NoError(t, err)
	a.Write(types.DetectionResult{Index: 0, Value: 1})
	require.NoError(t, a.Flush())
	require.NoError(t, a.Close())

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()
	assert.NotEqual(t, a.RunID(), b.RunID())

	count, err := b.CountResults(false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "新运行不应看到旧运行的结果")
}
