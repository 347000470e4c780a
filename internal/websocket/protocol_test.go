package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{
			name: "join",
			raw:  `{"type":"join-room","roomId":"r1"}`,
			want: Command{Kind: CommandJoin, RoomID: "r1"},
		},
		{
			name: "leave",
			raw:  `{"type":"leave-room","roomId":"r1"}`,
			want: Command{Kind: CommandLeave, RoomID: "r1"},
		},
		{
			name: "send",
			raw:  `{"type":"send-message","roomId":"r1","ackId":"7","data":{"content":"hi"}}`,
			want: Command{Kind: CommandSend, RoomID: "r1", AckID: "7", Content: "hi"},
		},
		{
			name: "send without room",
			raw:  `{"type":"send-message","data":{"content":"hi"}}`,
			want: Command{Kind: CommandSend, Content: "hi"},
		},
		{
			name: "delete",
			raw:  `{"type":"delete-message","ackId":"a","data":{"messageId":"m1"}}`,
			want: Command{Kind: CommandDelete, AckID: "a", MessageID: "m1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := ParseCommand([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = ParseCommand([]byte(`{"type":"send-message","data":"oops"}`))
	assert.ErrorIs(t, err, ErrInvalidFrame)

	_, err = ParseCommand([]byte(`{"type":"typing"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	// receive-* типы клиент не отправляет
	_, err = ParseCommand([]byte(`{"type":"receive-message"}`))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestEncodeFrame(t *testing.T) {
	raw, err := encodeFrame(TypeAck, "r1", "9", map[string]string{"k": "v"}, "")
	require.NoError(t, err)

	var f Frame
	require.NoError(t, json.Unmarshal(raw, &f))
	assert.Equal(t, TypeAck, f.Type)
	assert.Equal(t, "r1", f.RoomID)
	assert.Equal(t, "9", f.AckID)
	assert.JSONEq(t, `{"k":"v"}`, string(f.Data))
	assert.Empty(t, f.Error)
	assert.False(t, f.Timestamp.IsZero())

	raw, err = encodeFrame(TypeError, "", "", nil, "Forbidden")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"data"`)
	assert.Contains(t, string(raw), `"error":"Forbidden"`)
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "join", CommandJoin.String())
	assert.Equal(t, "disconnect", CommandDisconnect.String())
	assert.Equal(t, "command(42)", CommandKind(42).String())
}
