package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/amityadav/searchagg/internal/search"
	"github.com/gorilla/websocket"
)

// maxCloseReason is the largest reason a close frame can carry
const maxCloseReason = 123

// WebSocketHandler answers each inbound query message with a JSON array of
// results. Messages on one connection are handled strictly in order.
type WebSocketHandler struct {
	searcher Searcher
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the streaming endpoint. Requests without an
// Origin header, from the server's own host, or from one of origins are accepted.
func NewWebSocketHandler(searcher Searcher, origins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		searcher: searcher,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin] || sameOrigin(origin, r.Host)
			},
		},
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[WS] Read failed: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			log.Printf("[WS] Rejected non-text frame (type %d)", messageType)
			writeClose(conn, websocket.CloseUnsupportedData, "only text messages are accepted")
			return
		}
		log.Printf("[WS] Received data: %s", data)

		query, err := search.ParseQuery(data)
		var results []search.Result
		if err == nil {
			results, err = h.searcher.Search(r.Context(), query)
		}
		if err != nil {
			log.Printf("[WS] WebSocket error: %v", err)
			closeWithError(conn, err)
			return
		}

		if err := conn.WriteJSON(results); err != nil {
			log.Printf("[WS] Write failed: %v", err)
			return
		}
	}
}

func closeWithError(conn *websocket.Conn, err error) {
	code := websocket.CloseInternalServerErr
	var verr *search.ValidationError
	if errors.As(err, &verr) {
		code = websocket.CloseInvalidFramePayloadData
	}

	writeClose(conn, code, err.Error())
}

func writeClose(conn *websocket.Conn, code int, reason string) {
	if len(reason) > maxCloseReason {
		reason = strings.ToValidUTF8(reason[:maxCloseReason], "")
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

// sameOrigin reports whether origin points at host, the check gorilla applies by default
func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host != "" && strings.EqualFold(u.Host, host)
}
