package service

import (
	"context"
	"course_market_backend/internal/model"
	"course_market_backend/pkg/logger"
	"course_market_backend/pkg/monitoring"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	statusChannel = "video_status_channel"
	eventType     = "video-status-update"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage 下行消息信封
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Client struct {
	Hub     *VideoStatusHub
	Conn    *websocket.Conn
	Send    chan []byte
	connID  uint64
	UserID  uint
	Limiter *rate.Limiter
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		// 状态通道是单向下行的，客户端上行内容一律忽略
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		if !c.Limiter.Allow() {
			continue
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint64]*Client
	mu      sync.RWMutex
}

// EventRouter 在事件进入推送通道前按 videoId 应用到课时状态
type EventRouter interface {
	Route(event model.VideoStatusEvent)
}

// VideoStatusHub 进程级唯一的视频状态推送枢纽。
// 所有已挂载的编辑界面共享这一个订阅，事件按 videoId 路由；
// 多实例部署时经 Redis Pub/Sub 扇出
type VideoStatusHub struct {
	shards     [shardCount]*shard
	register   chan *Client
	unregister chan *Client
	Redis      *redis.Client
	router     EventRouter
	ctx        context.Context
	cancel     context.CancelFunc
	nextConnID uint64
}

func NewVideoStatusHub(rdb *redis.Client) *VideoStatusHub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &VideoStatusHub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		Redis:      rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint64]*Client),
		}
	}
	return h
}

// SetRouter 注入状态路由器，必须在 Run 之前调用
func (h *VideoStatusHub) SetRouter(router EventRouter) {
	h.router = router
}

func (h *VideoStatusHub) getShard(connID uint64) *shard {
	return h.shards[connID%shardCount]
}

func (h *VideoStatusHub) Run() {
	pubsub := h.Redis.Subscribe(h.ctx, statusChannel)
	go func() {
		ch := pubsub.Channel()
		for msg := range ch {
			h.fanout([]byte(msg.Payload))
		}
	}()

	for {
		select {
		case client := <-h.register:
			s := h.getShard(client.connID)
			s.mu.Lock()
			s.clients[client.connID] = client
			s.mu.Unlock()
			monitoring.WSClientGauge.Inc()

		case client := <-h.unregister:
			s := h.getShard(client.connID)
			s.mu.Lock()
			if _, ok := s.clients[client.connID]; ok {
				delete(s.clients, client.connID)
				close(client.Send)
				monitoring.WSClientGauge.Dec()
			}
			s.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// Publish 下发一条视频状态事件：先在本进程应用路由（课时状态落库），
// 再经 Redis 扇出到所有实例的已连接客户端
func (h *VideoStatusHub) Publish(event model.VideoStatusEvent) {
	if h.router != nil {
		h.router.Route(event)
	}

	msg := WSMessage{Type: eventType, Data: event}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Error("marshal status event", zap.Error(err))
		return
	}

	monitoring.WSEventCounter.WithLabelValues(event.Status).Inc()

	if err := h.Redis.Publish(h.ctx, statusChannel, payload).Err(); err != nil {
		// Redis不可达时退化为仅本地扇出，事件不丢
		logger.Log.Error("publish status event", zap.Error(err))
		h.fanout(payload)
	}
}

func (h *VideoStatusHub) fanout(payload []byte) {
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.RLock()
		for _, client := range s.clients {
			select {
			case client.Send <- payload:
			default:
			}
		}
		s.mu.RUnlock()
	}
}

// Stop 关闭所有连接
func (h *VideoStatusHub) Stop() {
	logger.Log.Info("VideoStatusHub stopping: closing connections...")

	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for connID, client := range s.clients {
			close(client.Send)
			delete(s.clients, connID)
			closed++
		}
		s.mu.Unlock()
	}

	h.cancel()
	monitoring.WSClientGauge.Set(0)
	logger.Log.Info("VideoStatusHub stopped", zap.Int("closedConnections", closed))
}

func ServeWs(hub *VideoStatusHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		connID:  atomic.AddUint64(&hub.nextConnID, 1),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(30), 50),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
