package factory

import (
	"errors"
	"testing"
)

type sink struct {
	Addr    string
	Retries int
}

type sinkConf struct {
	Addr    string `json:"addr"`
	Retries int    `json:"retries"`
}

func newSinkRegistry(t *testing.T) *Registry[*sink] {
	t.Helper()
	reg := NewRegistry[*sink]()
	if err := reg.Register("sink", func(conf map[string]any) (*sink, error) {
		var c sinkConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sink{Addr: c.Addr, Retries: c.Retries}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return reg
}

func TestRegistryCreate(t *testing.T) {
	reg := newSinkRegistry(t)
	s, err := reg.Create(ModuleConfig{Type: "sink", Conf: map[string]any{"addr": ":9100", "retries": "3"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.Addr != ":9100" || s.Retries != 3 {
		t.Fatalf("unexpected sink %+v", s)
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := newSinkRegistry(t)
	if err := reg.Register("sink", func(map[string]any) (*sink, error) { return nil, nil }); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := reg.Register("nil", nil); err == nil {
		t.Fatal("expected error for nil factory")
	}
	if _, err := reg.Create(ModuleConfig{Type: "missing"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := newSinkRegistry(t)
	_ = reg.Register("another", func(map[string]any) (*sink, error) { return &sink{}, nil })
	names := reg.Names()
	if len(names) != 2 || names[0] != "another" || names[1] != "sink" {
		t.Fatalf("unexpected names %v", names)
	}
}
