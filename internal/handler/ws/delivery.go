package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rankline/live-poll-service/internal/domain/model"
	"github.com/rankline/live-poll-service/internal/domain/registry"
	wsmarshaller "github.com/rankline/live-poll-service/internal/handler/marshaller/ws"
	"github.com/rankline/live-poll-service/internal/service"
)

type Handler struct {
	logger   *slog.Logger
	poller   service.Poller
	upgrader websocket.Upgrader
}

func NewHandler(logger *slog.Logger, poller service.Poller) *Handler {
	return &Handler{
		logger: logger,
		poller: poller,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

// Serve joins the requester to the poll and, on success, upgrades the
// connection and pumps snapshots out and mutations in until either side
// goes away. Unknown polls are rejected before the upgrade.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, pollID string, req model.Requester) {
	sess, err := h.poller.Join(r.Context(), pollID, req)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrPollNotFound):
			http.Error(w, "poll not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusConflict)
		}
		return
	}
	defer sess.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "poll_id", pollID, "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debug("ws opened", "poll_id", pollID, "identity", sess.Identity)

	go h.writePump(conn, sess)
	h.readPump(r.Context(), conn, sess)
}

// writePump owns all writes on the connection.
func (h *Handler) writePump(conn *websocket.Conn, sess *service.Session) {
	for {
		select {
		case <-sess.Done():
			return
		case <-sess.Ended():
			// The poll tore itself down; tell the client and hang up.
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "poll closed"))
			conn.Close()
			return
		case snap := <-sess.Recv():
			data, err := wsmarshaller.MarshalSnapshot(snap)
			if err != nil {
				h.logger.Error("failed to marshal snapshot", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

// readPump forwards client mutations to the poll. Malformed frames are
// dropped; rejected mutations are not echoed back, the next broadcast is
// the client's source of truth.
func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, sess *service.Session) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return // client disconnected
		}
		mut, err := wsmarshaller.ParseMutation(data)
		if err != nil {
			h.logger.Debug("dropping unreadable frame", "poll_id", sess.PollID, "error", err)
			continue
		}
		switch mut.Kind {
		case wsmarshaller.MutationAddItem:
			if _, err := h.poller.AddItem(ctx, sess.PollID, sess.Identity, mut.Text); errors.Is(err, registry.ErrPollNotFound) {
				return
			}
		case wsmarshaller.MutationVoteItem:
			if err := h.poller.VoteItem(ctx, sess.PollID, sess.Identity, mut.ItemID, mut.Vote); errors.Is(err, registry.ErrPollNotFound) {
				return
			}
		}
	}
}
