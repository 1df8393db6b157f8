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

// Package sqlite 把检测结果持久化到SQLite。
// 每次打开对应一次运行（run），结果按运行ID归档，批量写入。
// 这是管道的外部收集端，不参与任何检测决策。
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rulego/streamwatch/types"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	started_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id     TEXT NOT NULL REFERENCES runs(run_id),
	idx        INTEGER NOT NULL,
	value      REAL NOT NULL,
	z_score    REAL,
	is_anomaly INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx)
);
CREATE INDEX IF NOT EXISTS idx_results_anomaly ON results(run_id, is_anomaly);
`

const defaultBatchSize = 128

// Sink SQLite结果收集器
type Sink struct {
	db        *sql.DB
	runID     string
	batchSize int

	mu  sync.Mutex
	buf []types.DetectionResult
}

// Open 打开（必要时创建）结果数据库并登记一次新的运行。
// 启用WAL模式，单连接串行写入。
func Open(path string) (*Sink, error) {
	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open result database: %w", err)
	}
	// SQLite同一时刻只支持一个写入者
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping result database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	runID := uuid.New().String()
	startedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.Exec("INSERT INTO runs (run_id, started_at) VALUES (?, ?)", runID, startedAt); err != nil {
		db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	return &Sink{db: db, runID: runID, batchSize: defaultBatchSize}, nil
}

// RunID 本次运行的ID
func (s *Sink) RunID() string {
	return s.runID
}

// Write 缓冲一条检测结果，攒满一批后写库。
// 方法值可直接用作types.Sink。
func (s *Sink) Write(result types.DetectionResult) {
	s.mu.Lock()
	s.buf = append(s.buf, result)
	shouldFlush := len(s.buf) >= s.batchSize
	s.mu.Unlock()
	if shouldFlush {
		// 写库失败只影响持久化，不中断检测管道
		_ = s.Flush()
	}
}

// Flush 把缓冲的结果在一个事务里写入数据库
func (s *Sink) Flush() error {
	s.mu.Lock()
	batch := s.buf
	s.buf = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO results (run_id, idx, value, z_score, is_anomaly) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range batch {
		zScore := sql.NullFloat64{}
		if res.ZScore != nil {
			zScore = sql.NullFloat64{Float64: *res.ZScore, Valid: true}
		}
		if _, err := stmt.Exec(s.runID, res.Index, res.Value, zScore, res.IsAnomaly); err != nil {
			return fmt.Errorf("insert result %d: %w", res.Index, err)
		}
	}
	return tx.Commit()
}

// Close 冲刷缓冲并关闭数据库
func (s *Sink) Close() error {
	flushErr := s.Flush()
	closeErr := s.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// CountResults 查询本次运行已持久化的结果数，anomaliesOnly为真时只统计异常
func (s *Sink) CountResults(anomaliesOnly bool) (int64, error) {
	query := "SELECT COUNT(*) FROM results WHERE run_id = ?"
	if anomaliesOnly {
		query += " AND is_anomaly = 1"
	}
	var count int64
	if err := s.db.QueryRow(query, s.runID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return count, nil
}
