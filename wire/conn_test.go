package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionRecvMsgAcrossPartialReads(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConnection(client)

	frame := rawFrame(byte(ServerReady), []byte{'I'})

	done := make(chan error, 1)
	go func() {
		// Dribble the frame out one byte at a time to exercise the
		// NeedMoreData retry loop.
		for _, b := range frame {
			if _, err := server.Write([]byte{b}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	msg, err := conn.RecvMsg()
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.Equal(t, ReadyForQuery{Status: 'I'}, msg)
}

func TestConnectionRecvMsgCompactsBuffer(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConnection(client)

	one := rawFrame(byte(ServerReady), []byte{'I'})
	two := rawFrame(byte(ServerParseComplete), nil)

	go func() {
		server.Write(one)
		server.Write(two)
	}()

	first, err := conn.RecvMsg()
	require.NoError(t, err)
	require.Equal(t, ReadyForQuery{Status: 'I'}, first)

	second, err := conn.RecvMsg()
	require.NoError(t, err)
	require.Equal(t, ParseComplete{}, second)
}

func TestConnectionRecvUntilReady(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	conn := NewConnection(client)

	noticeBody := append([]byte{'S'}, cstr("NOTICE")...)
	noticeBody = append(noticeBody, 0)
	notice := rawFrame(byte(ServerNoticeResponse), noticeBody)
	ready := rawFrame(byte(ServerReady), []byte{'I'})

	go func() {
		server.Write(notice)
		server.Write(ready)
	}()

	var seen []BackendMsg
	err := conn.RecvUntilReady(func(msg BackendMsg) error {
		seen = append(seen, msg)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	_, isNotice := seen[0].(NoticeResponse)
	require.True(t, isNotice)
	_, isReady := seen[1].(ReadyForQuery)
	require.True(t, isReady)
}
