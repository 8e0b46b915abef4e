package transport

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (a *Adapter) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(a.opts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "transport").Msg("writePump ctx done")
			_ = conn.Close()
			return
		case <-done:
			return
		case <-a.reauth:
			log.Info().Str("module", "transport").Msg("credential changed, dropping connection")
			_ = conn.Close()
			return
		case data := <-a.send:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "transport").Msg("writePump set deadline")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "transport").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump decodes every inbound frame through the wire codec and
// publishes the normalized event. Frames the codec does not recognize
// are dropped without comment.
func (a *Adapter) readPump(conn *websocket.Conn) {
	defer log.Info().Str("module", "transport").Msg("readPump closing")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Str("module", "transport").Msg("readPump read error")
			return
		}
		ev, ok := a.codec.Decode(data)
		if !ok {
			log.Debug().Str("module", "transport").Str("codec", a.codec.Name()).Msg("dropping unrecognized frame")
			continue
		}
		a.bus.Publish(ev)
	}
}
