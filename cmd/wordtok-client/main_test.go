package main

import (
	"testing"

	"github.com/fractalmind-ai/wordtok/pkg/protocol"
)

func TestBuildRequest(t *testing.T) {
	msg, err := buildRequest(protocol.ActionDecode, "42, 43 1120")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req, ok := msg.Data.(protocol.DecodeRequest)
	if !ok {
		t.Fatalf("expected decode request, got %#v", msg.Data)
	}
	if len(req.Tokens) != 3 || req.Tokens[0] != 42 || req.Tokens[2] != 1120 {
		t.Fatalf("unexpected tokens: %v", req.Tokens)
	}

	msg, err = buildRequest(protocol.ActionEncode, "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != protocol.MessageKindTokenizer || msg.Data.(protocol.EncodeRequest).Text != "hello world" {
		t.Fatalf("unexpected encode request: %#v", msg)
	}

	msg, err = buildRequest(protocol.ActionSize, "")
	if err != nil || msg.Data != nil {
		t.Fatalf("unexpected size request: %#v err=%v", msg, err)
	}
}

func TestBuildRequestRejectsBadInput(t *testing.T) {
	if _, err := buildRequest(protocol.ActionDecode, "42 x"); err == nil {
		t.Fatal("expected error for non-integer token")
	}
	if _, err := buildRequest("explode", ""); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
