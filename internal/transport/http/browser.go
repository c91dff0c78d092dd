package http

import (
	"log"
	"sync"

	"campus-map-quiz/internal/domain"
	"campus-map-quiz/internal/presentation"
	"github.com/google/uuid"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type overlayPayload struct {
	ID     presentation.OverlayHandle `json:"id"`
	Bounds domain.BoundingBox         `json:"bounds"`
	Style  presentation.OverlayStyle  `json:"style"`
	Color  string                     `json:"color"`
}

type overlayRef struct {
	ID presentation.OverlayHandle `json:"id"`
}

type textPayload struct {
	Region presentation.Region `json:"region"`
	Text   string              `json:"text"`
}

type visibilityPayload struct {
	Region  presentation.Region `json:"region"`
	Visible bool                `json:"visible"`
}

type questionPayload struct {
	Index   int    `json:"index"`
	Prompt  string `json:"prompt,omitempty"`
	Result  string `json:"result,omitempty"`
	Correct bool   `json:"correct,omitempty"`
}

type scoresPayload struct {
	Lines       []presentation.ScoreLine `json:"lines"`
	Placeholder string                   `json:"placeholder,omitempty"`
}

// browserClient is the map and page capability of one connected browser.
// Every call becomes a render command on the socket. Pushes never block: a
// browser that stops reading until the buffer fills is disconnected via stall.
type browserClient struct {
	send  chan<- outboundMessage[any]
	done  <-chan struct{}
	stall func()
	once  sync.Once
}

var (
	_ presentation.Map = (*browserClient)(nil)
	_ presentation.UI  = (*browserClient)(nil)
)

func (c *browserClient) push(typ string, payload any) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	default:
		c.once.Do(func() {
			log.Printf("ws send buffer full, dropping client")
			if c.stall != nil {
				c.stall()
			}
		})
	}
}

func (c *browserClient) Configure(opts presentation.MapOptions) {
	c.push("mapInit", opts)
}

func (c *browserClient) DrawOverlay(box domain.BoundingBox, style presentation.OverlayStyle) presentation.OverlayHandle {
	handle := presentation.OverlayHandle(uuid.NewString())
	c.push("drawOverlay", overlayPayload{ID: handle, Bounds: box, Style: style, Color: style.Color()})
	return handle
}

func (c *browserClient) RemoveOverlay(handle presentation.OverlayHandle) {
	c.push("removeOverlay", overlayRef{ID: handle})
}

func (c *browserClient) SetText(region presentation.Region, text string) {
	c.push("setText", textPayload{Region: region, Text: text})
}

func (c *browserClient) SetVisible(region presentation.Region, visible bool) {
	c.push("setVisible", visibilityPayload{Region: region, Visible: visible})
}

func (c *browserClient) ClearQuestions() {
	c.push("clearQuestions", struct{}{})
}

func (c *browserClient) AppendQuestion(index int, prompt string) {
	c.push("appendQuestion", questionPayload{Index: index, Prompt: prompt})
}

func (c *browserClient) MarkQuestion(index int, result string, correct bool) {
	c.push("markQuestion", questionPayload{Index: index, Result: result, Correct: correct})
}

func (c *browserClient) ShowToast(toast presentation.Toast) {
	c.push("toast", toast)
}

func (c *browserClient) RenderScores(lines []presentation.ScoreLine, placeholder string) {
	if len(lines) > 0 {
		placeholder = ""
	}
	c.push("scores", scoresPayload{Lines: lines, Placeholder: placeholder})
}

func (c *browserClient) Celebrate(celebration presentation.Celebration) {
	c.push("celebrate", celebration)
}

func (c *browserClient) PulseMap() {
	c.push("pulse", struct{}{})
}

func (c *browserClient) sendError(message string) {
	c.push("error", errorPayload{Message: message})
}
