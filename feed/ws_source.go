package feed

import (
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// WSSource streams feed lines from a websocket endpoint, one event per
// text message. A normal close from the remote maps to io.EOF so the
// run loop treats it like end of file.
type WSSource struct {
	conn *websocket.Conn
}

func DialWS(url string) (*WSSource, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &WSSource{conn: conn}, nil
}

func (s *WSSource) Next() ([]byte, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		return nil, err
	}
	return msg, nil
}

func (s *WSSource) Close() error { return s.conn.Close() }
