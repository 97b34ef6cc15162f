package audit

import (
	"encoding/json"
	"sync"
	"time"

	"virapi/internal/model"
	"virapi/pkg/logger"

	"github.com/gorilla/websocket"
)

// StreamConfig 日志实时推送配置
type StreamConfig struct {
	PingInterval   time.Duration // 心跳间隔
	WriteWait      time.Duration // 写超时
	ReadWait       time.Duration // 读超时
	MaxMessageSize int64         // 最大消息大小
}

// StreamMessage 推送消息包裹
type StreamMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// streamClient 单个订阅连接
//
// 所有对底层连接的写入（广播与心跳）都由该连接的writePump串行执行，
// send通道是唯一的广播入口；广播循环绝不直接写连接。
type streamClient struct {
	conn  *websocket.Conn
	appID string
	send  chan []byte
}

// Stream 请求日志实时推送服务
//
// 控制台客户端按应用订阅，每条落盘的日志记录向同应用的订阅者广播。
// 客户端发送缓冲满时丢弃，绝不反压记录器。
type Stream struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]*streamClient
	broadcast chan *model.RequestLog
	config    *StreamConfig
	done      chan struct{}
}

// NewStream 创建日志推送服务
func NewStream(config *StreamConfig) *Stream {
	if config == nil {
		config = &StreamConfig{}
	}
	if config.PingInterval <= 0 {
		config.PingInterval = 30 * time.Second
	}
	if config.WriteWait <= 0 {
		config.WriteWait = 10 * time.Second
	}
	if config.ReadWait <= 0 {
		config.ReadWait = 60 * time.Second
	}
	if config.MaxMessageSize <= 0 {
		config.MaxMessageSize = 1024
	}
	return &Stream{
		clients:   make(map[*websocket.Conn]*streamClient),
		broadcast: make(chan *model.RequestLog, 100),
		config:    config,
		done:      make(chan struct{}),
	}
}

// Start 运行广播循环
func (s *Stream) Start() {
	for {
		select {
		case log := <-s.broadcast:
			s.broadcastLog(log)
		case <-s.done:
			return
		}
	}
}

// Stop 停止广播循环并断开所有客户端
func (s *Stream) Stop() {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, client := range s.clients {
		delete(s.clients, conn)
		close(client.send)
		conn.Close()
	}
}

// AddClient 添加订阅客户端
func (s *Stream) AddClient(conn *websocket.Conn, appID string) {
	client := &streamClient{
		conn:  conn,
		appID: appID,
		send:  make(chan []byte, 16),
	}

	s.mu.Lock()
	s.clients[conn] = client
	s.mu.Unlock()

	conn.SetReadLimit(s.config.MaxMessageSize)

	go s.writePump(client)
	go s.readPump(client)
}

// RemoveClient 移除订阅客户端
func (s *Stream) RemoveClient(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(client.send)
		conn.Close()
	}
}

// Broadcast 投递一条日志，缓冲满时丢弃
func (s *Stream) Broadcast(log *model.RequestLog) {
	select {
	case s.broadcast <- log:
	default:
	}
}

// ClientCount 当前订阅客户端数量
func (s *Stream) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// broadcastLog 向同应用订阅者的发送缓冲投递日志
//
// 持读锁期间send通道不会被关闭（RemoveClient先拿写锁再摘map、关通道），
// 目标缓冲满时丢弃该条。
func (s *Stream) broadcastLog(log *model.RequestLog) {
	message := StreamMessage{
		Type:    "request_log",
		Payload: log,
	}

	data, err := json.Marshal(message)
	if err != nil {
		logger.Warn("failed to marshal stream message: %v", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		if client.appID != log.AppID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

// writePump 连接的唯一写入方：串行处理广播消息与周期心跳
func (s *Stream) writePump(c *streamClient) {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Warn("failed to write to stream client: %v", err)
				s.RemoveClient(c.conn)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.RemoveClient(c.conn)
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump 读取客户端消息，主要用于检测连接状态
func (s *Stream) readPump(c *streamClient) {
	defer s.RemoveClient(c.conn)

	c.conn.SetReadDeadline(time.Now().Add(s.config.ReadWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.config.ReadWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("stream client error: %v", err)
			}
			break
		}
	}
}
