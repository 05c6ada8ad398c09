package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fractalmind-ai/wordtok/pkg/protocol"
	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:18790/ws", "websocket server URL")
	session := flag.String("session", "", "session id shared with other clients")
	action := flag.String("action", "encode", "tokenizer action: encode, count, decode, add, has, size, vocabulary")
	flag.Parse()

	req, err := buildRequest(protocol.Action(*action), strings.Join(flag.Args(), " "))
	if err != nil {
		log.Fatalf("Invalid request: %v", err)
	}

	target := *url
	if *session != "" {
		target += "?session=" + *session
	}

	conn, _, err := websocket.DefaultDialer.Dial(target, nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		log.Fatalf("Write failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var resp protocol.Message
	if err := conn.ReadJSON(&resp); err != nil {
		log.Fatalf("Read failed: %v", err)
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		log.Fatalf("Marshal failed: %v", err)
	}

	fmt.Println(string(payload))
}

func buildRequest(action protocol.Action, arg string) (*protocol.Message, error) {
	msg := &protocol.Message{Kind: protocol.MessageKindTokenizer, Action: action}

	switch action {
	case protocol.ActionEncode, protocol.ActionCount:
		msg.Data = protocol.EncodeRequest{Text: arg}
	case protocol.ActionDecode:
		fields := strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' })
		tokens := make([]int, 0, len(fields))
		for _, field := range fields {
			id, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("token %q is not an integer", field)
			}
			tokens = append(tokens, id)
		}
		msg.Data = protocol.DecodeRequest{Tokens: tokens}
	case protocol.ActionAdd, protocol.ActionHas:
		msg.Data = protocol.TokenRequest{Token: arg}
	case protocol.ActionSize, protocol.ActionVocabulary:
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	return msg, nil
}
