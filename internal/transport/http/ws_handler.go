package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/domain"
	"campus-map-quiz/internal/presentation"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

// QuizOptions carries per-session settings shared by every connection.
type QuizOptions struct {
	DefaultCourse string
	ScoresKey     string
	SettleDelay   time.Duration
	TickInterval  time.Duration
}

type WSHandler struct {
	courses  app.CourseRepository
	kv       app.KeyValueStore
	opts     QuizOptions
	upgrader websocket.Upgrader
}

func NewWSHandler(courses app.CourseRepository, kv app.KeyValueStore, opts QuizOptions) *WSHandler {
	return &WSHandler{
		courses: courses,
		kv:      kv,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServeWS upgrades a page to a websocket and runs one quiz machine for it.
// Query: courseId (optional), playerId (optional, scopes the score board).
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	if courseID == "" {
		courseID = h.opts.DefaultCourse
	}
	course, err := h.courses.GetCourse(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			http.Error(w, "unknown course", http.StatusNotFound)
			return
		}
		log.Printf("load course %s: %v", courseID, err)
		http.Error(w, "course unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], sendBufferSize)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		defer conn.Close()
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	client := &browserClient{send: send, done: writerDone, stall: func() { conn.Close() }}
	adapter := presentation.NewAdapter(client, client)
	adapter.Attach(course)

	scores := app.NewScoreStore(h.kv, app.PlayerScoresKey(h.opts.ScoresKey, r.URL.Query().Get("playerId")))
	machine, err := app.NewQuizMachine(course.Locations, adapter, app.MachineOptions{
		SettleDelay:  h.opts.SettleDelay,
		TickInterval: h.opts.TickInterval,
		Scores:       scores,
	})
	if err != nil {
		client.sendError(err.Error())
		close(send)
		<-writerDone
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			machine.Start(r.Context())
		case "answer":
			var click domain.Coordinate
			if err := json.Unmarshal(inbound.Payload, &click); err != nil {
				client.sendError("invalid answer payload")
				continue
			}
			machine.SubmitAnswer(r.Context(), click)
		case "restart":
			machine.Restart(r.Context())
		default:
			client.sendError("unsupported message type")
		}
	}

	machine.Close()
	close(send)
	<-writerDone
}
