package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/thereayou/chat-rooms/internal/handlers/dto"
)

// MessageType тип кадра протокола
type MessageType string

const (
	// Клиент -> сервер
	TypeJoinRoom      MessageType = "join-room"
	TypeSendMessage   MessageType = "send-message"
	TypeDeleteMessage MessageType = "delete-message"
	TypeLeaveRoom     MessageType = "leave-room"

	// Сервер -> клиент
	TypeInitialMessages MessageType = "receive-initial-messages"
	TypeReceiveMessage  MessageType = "receive-message"
	TypeAck             MessageType = "ack"
	TypeError           MessageType = "error"
)

// Frame единица обмена по websocket в обе стороны
type Frame struct {
	Type      MessageType     `json:"type"`
	AckID     string          `json:"ackId,omitempty"`
	RoomID    string          `json:"roomId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// CommandKind закрытый набор действий, на которые реагирует Session
type CommandKind int

const (
	CommandJoin CommandKind = iota + 1
	CommandSend
	CommandDelete
	CommandLeave
	CommandDisconnect
)

func (k CommandKind) String() string {
	switch k {
	case CommandJoin:
		return "join"
	case CommandSend:
		return "send"
	case CommandDelete:
		return "delete"
	case CommandLeave:
		return "leave"
	case CommandDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

type Command struct {
	Kind      CommandKind
	AckID     string
	RoomID    string
	Content   string
	MessageID string
}

// ParseCommand разбирает входящий кадр. Для send-message пустой data
// допустим: проверку содержимого делает Session.
func ParseCommand(raw []byte) (Command, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	cmd := Command{AckID: f.AckID, RoomID: f.RoomID}
	switch f.Type {
	case TypeJoinRoom:
		cmd.Kind = CommandJoin
	case TypeLeaveRoom:
		cmd.Kind = CommandLeave
	case TypeSendMessage:
		cmd.Kind = CommandSend
		var p dto.SendMessagePayload
		if err := decodeData(f.Data, &p); err != nil {
			return Command{}, err
		}
		cmd.Content = p.Content
	case TypeDeleteMessage:
		cmd.Kind = CommandDelete
		var p dto.DeleteMessagePayload
		if err := decodeData(f.Data, &p); err != nil {
			return Command{}, err
		}
		cmd.MessageID = p.MessageID
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
	return cmd, nil
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: data: %v", ErrInvalidFrame, err)
	}
	return nil
}

// encodeFrame собирает кадр сервер -> клиент
func encodeFrame(t MessageType, roomID, ackID string, data any, reason string) ([]byte, error) {
	f := Frame{
		Type:      t,
		AckID:     ackID,
		RoomID:    roomID,
		Error:     reason,
		Timestamp: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		f.Data = raw
	}
	return json.Marshal(f)
}
