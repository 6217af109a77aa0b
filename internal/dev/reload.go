package dev

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vcrobe/nojs-elements/internal/errors"
)

// ReloadPath is the websocket endpoint pages connect to.
const ReloadPath = "/_wc/reload"

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadMessage is sent to browsers via WebSocket.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
}

// ReloadServer manages WebSocket connections for live reload.
type ReloadServer struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	metrics  *Metrics
}

// NewReloadServer creates a new reload server. metrics may be nil.
func NewReloadServer(metrics *Metrics) *ReloadServer {
	return &ReloadServer{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: metrics,
	}
}

// HandleWebSocket upgrades the request and holds the connection until the
// client goes away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.clients[conn] = true
	r.mu.Unlock()
	r.metrics.setClients(r.ClientCount())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	r.mu.Lock()
	delete(r.clients, conn)
	r.mu.Unlock()
	r.metrics.setClients(r.ClientCount())
	conn.Close()
}

// NotifyReload tells every page to reload.
func (r *ReloadServer) NotifyReload() {
	r.metrics.reloaded()
	r.broadcast(ReloadMessage{Type: ReloadTypeFull})
}

// NotifyError shows a build error overlay on every page.
func (r *ReloadServer) NotifyError(errMsg string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeError, Error: errMsg})
}

// ClearError removes the error overlay on every page.
func (r *ReloadServer) ClearError() {
	r.broadcast(ReloadMessage{Type: ReloadTypeClear})
}

func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			r.mu.Lock()
			delete(r.clients, client)
			r.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected pages.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for client := range r.clients {
		client.Close()
		delete(r.clients, client)
	}
}

// DevClientScript connects to ReloadPath and reloads the page or shows
// the build error it is sent.
const DevClientScript = `<script>
(function () {
  "use strict";

  var delay = 1000;

  function overlay(text) {
    clear();
    var pre = document.createElement("pre");
    pre.id = "wc-error-overlay";
    pre.style.cssText = "position:fixed;inset:0;margin:0;padding:20px;background:rgba(0,0,0,.9);color:#f55;white-space:pre-wrap;z-index:999999;";
    pre.textContent = text;
    document.body.appendChild(pre);
  }

  function clear() {
    var pre = document.getElementById("wc-error-overlay");
    if (pre) {
      pre.remove();
    }
  }

  function connect() {
    var protocol = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(protocol + "//" + location.host + "/_wc/reload");

    ws.onopen = function () {
      delay = 1000;
    };

    ws.onmessage = function (e) {
      var msg;
      try {
        msg = JSON.parse(e.data);
      } catch (err) {
        return;
      }
      switch (msg.type) {
        case "reload":
          location.reload();
          break;
        case "error":
          console.error("[wcdev] build failed:", msg.error);
          overlay(msg.error);
          break;
        case "clear":
          clear();
          break;
      }
    };

    ws.onclose = function () {
      setTimeout(function () {
        delay = Math.min(delay * 2, 30000);
        connect();
      }, delay);
    };
  }

  connect();
})();
</script>`

// InjectReloadClient appends DevClientScript to the body of page. Pages
// that already carry the client are returned unchanged.
func InjectReloadClient(page []byte) ([]byte, error) {
	if bytes.Contains(page, []byte(ReloadPath)) {
		return page, nil
	}

	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.New("E020").WithDetail("index page is not valid HTML").Wrap(err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, errors.New("E020").WithDetail("index page has no body")
	}

	nodes, err := html.ParseFragment(strings.NewReader(DevClientScript), body)
	if err != nil {
		return nil, errors.New("E020").Wrap(err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, errors.New("E020").Wrap(err)
	}
	return buf.Bytes(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
