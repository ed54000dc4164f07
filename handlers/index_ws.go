package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ethpandaops/lottery/services"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsPongTimeout  = 60 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// IndexWebsocket streams a lottery state snapshot after every change
func IndexWebsocket(w http.ResponseWriter, r *http.Request) {
	controller := services.GlobalLotteryController
	if controller == nil {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	subscription := controller.Subscribe(8)
	defer subscription.Unsubscribe()

	closeChan := make(chan struct{})
	go func() {
		defer close(closeChan)

		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logrus.WithError(err).Debug("websocket read error")
				}
				return
			}
		}
	}()

	state := controller.State()
	if err := writeLotteryState(conn, controller, &state); err != nil {
		return
	}

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-closeChan:
			return
		case <-r.Context().Done():
			return
		case state := <-subscription.Channel():
			if err := writeLotteryState(conn, controller, &state); err != nil {
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeLotteryState(conn *websocket.Conn, controller *services.LotteryController, state *services.LotteryState) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	err := conn.WriteJSON(buildLotteryPageData(controller, state))
	if err != nil {
		logrus.WithError(err).Debug("websocket write error")
	}
	return err
}
