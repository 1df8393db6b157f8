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

// Package ws 通过WebSocket把检测结果实时推送给可视化客户端。
// Hub维护已连接的客户端集合，每条检测结果以JSON广播。
// 这是原始实时绘图需求的输出端：客户端拿到(index, value,
// isAnomaly, zScore)自行渲染，不做任何检测决策。
package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rulego/streamwatch/logger"
	"github.com/rulego/streamwatch/types"
)

// Hub 检测结果的WebSocket广播中心
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub 创建广播中心
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 可视化页面通常跑在别的端口上
				return true
			},
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler 返回接受客户端连接的HTTP处理函数。
// 挂到任意mux上即可，例如 mux.Handle("/live", hub.Handler())。
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed: %v", err)
			return
		}
		h.mu.Lock()
		h.conns[conn] = struct{}{}
		h.mu.Unlock()
		logger.Debug("viewer connected from %s", conn.RemoteAddr())

		// 读循环只用于感知客户端断开
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.remove(conn)
					return
				}
			}
		}()
	}
}

// Broadcast 把一条检测结果推送给所有已连接的客户端。
// 方法值可直接用作types.Sink。写失败的连接被移除。
func (h *Hub) Broadcast(result types.DetectionResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(result); err != nil {
			logger.Debug("viewer dropped: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// ClientCount 当前连接的客户端数
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close 关闭所有客户端连接
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}

// remove 注销并关闭一个连接
func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.Close()
	delete(h.conns, conn)
}
