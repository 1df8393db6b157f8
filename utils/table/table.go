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

// Package table 以数据库风格的表格形式输出检测结果。
package table

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulego/streamwatch/types"
)

// 检测结果表格的固定列顺序
var resultColumns = []string{types.FieldIndex, types.FieldValue, types.FieldZScore, types.FieldIsAnomaly}

// FprintResults writes detection results as an aligned table.
// The z_score column shows "-" during warm-up.
func FprintResults(w io.Writer, results []types.DetectionResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	rows := make([][]string, len(results))
	for i, res := range results {
		zScore := "-"
		if res.ZScore != nil {
			zScore = fmt.Sprintf("%.4f", *res.ZScore)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", res.Index),
			fmt.Sprintf("%.4f", res.Value),
			zScore,
			fmt.Sprintf("%v", res.IsAnomaly),
		}
	}

	// Column width is the max of header and cell widths, minimum 4
	widths := make([]int, len(resultColumns))
	for i, col := range resultColumns {
		widths[i] = len(col)
		for _, row := range rows {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		if widths[i] < 4 {
			widths[i] = 4
		}
	}

	printBorder(w, widths)
	fmt.Fprint(w, "|")
	for i, col := range resultColumns {
		fmt.Fprintf(w, " %-*s |", widths[i], col)
	}
	fmt.Fprintln(w)
	printBorder(w, widths)

	for _, row := range rows {
		fmt.Fprint(w, "|")
		for i, cell := range row {
			fmt.Fprintf(w, " %-*s |", widths[i], cell)
		}
		fmt.Fprintln(w)
	}

	printBorder(w, widths)
	fmt.Fprintf(w, "(%d rows)\n", len(results))
}

// PrintResults writes detection results as a table to stdout
func PrintResults(results []types.DetectionResult) {
	FprintResults(os.Stdout, results)
}

// printBorder prints a +---+---+ border line
func printBorder(w io.Writer, widths []int) {
	fmt.Fprint(w, "+")
	for _, width := range widths {
		fmt.Fprint(w, strings.Repeat("-", width+2))
		fmt.Fprint(w, "+")
	}
	fmt.Fprintln(w)
}
