package config

import (
	"strings"
	"testing"
)

const sampleConfig = `
server:
  addr: "0.0.0.0:8080"
  thread: 4
hosts:
  a.example.com:
    routing: [127.0.0.1:9001, 127.0.0.1:9002]
  b.example.com:
    routing:
      - 127.0.0.1:9101
`

func TestParseFileBuildsTree(t *testing.T) {
	root, err := ParseFile(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	server, err := root.Child("server")
	if err != nil {
		t.Fatalf("expected a server node: %v", err)
	}
	addr, err := server.Child("addr")
	if err != nil {
		t.Fatalf("expected an addr node: %v", err)
	}
	v, err := addr.ScalarValue()
	if err != nil {
		t.Fatalf("expected a scalar value: %v", err)
	}
	s, err := v.String()
	if err != nil || s != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr value: %q err=%v", s, err)
	}
}

func TestParseFileInlineAndBlockLists(t *testing.T) {
	root, err := ParseFile(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hosts, err := root.Child("hosts")
	if err != nil {
		t.Fatalf("expected a hosts node: %v", err)
	}

	a, err := hosts.Child("a.example.com")
	if err != nil {
		t.Fatalf("expected a.example.com: %v", err)
	}
	routingA, err := a.Child("routing")
	if err != nil {
		t.Fatalf("expected routing: %v", err)
	}
	listA, err := routingA.List()
	if err != nil || len(listA) != 2 {
		t.Fatalf("expected 2 inline addrs, got %d err=%v", len(listA), err)
	}

	b, err := hosts.Child("b.example.com")
	if err != nil {
		t.Fatalf("expected b.example.com: %v", err)
	}
	routingB, err := b.Child("routing")
	if err != nil {
		t.Fatalf("expected routing: %v", err)
	}
	listB, err := routingB.List()
	if err != nil || len(listB) != 1 {
		t.Fatalf("expected 1 block-list addr, got %d err=%v", len(listB), err)
	}
}

func TestFromLevelBuildsConfig(t *testing.T) {
	root, err := ParseFile(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := fromLevel(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Server.Thread != 4 {
		t.Fatalf("unexpected thread count: %d", cfg.Server.Thread)
	}
	if len(cfg.Hosts["a.example.com"]) != 2 {
		t.Fatalf("unexpected routes for a.example.com: %v", cfg.Hosts["a.example.com"])
	}
}

func TestValueParsing(t *testing.T) {
	if v := NewValue(`"quoted"`); v.kind != valueString {
		t.Fatalf("expected quoted string to parse as string")
	} else if s, _ := v.String(); s != "quoted" {
		t.Fatalf("expected unquoted content %q", s)
	}

	if v := NewValue("true"); v.kind != valueBool {
		t.Fatalf("expected lowercase true to parse as bool")
	}
	if v := NewValue("False"); v.kind != valueBool {
		t.Fatalf("expected capitalized False to parse as bool")
	}
	if v := NewValue("42"); v.kind != valueNumber {
		t.Fatalf("expected 42 to parse as number")
	}
	if v := NewValue("bareword"); v.kind != valueString {
		t.Fatalf("expected bareword to parse as string")
	}
}
