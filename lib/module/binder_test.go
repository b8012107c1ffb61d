package module

import (
	"errors"
	"testing"
)

func TestBind_VerifiesCapability(t *testing.T) {
	r := NewRegistry(testCapability)

	if _, err := Bind[widget](r, testCapability); err != nil {
		t.Errorf("unexpected bind error: %v", err)
	}
	if _, err := Bind[widget](r, "test.modulepp/other@v2"); !errors.Is(err, ErrCapabilityMismatch) {
		t.Errorf("expected ErrCapabilityMismatch, got %v", err)
	}
	if r.Len() != 0 {
		t.Error("a failed bind must not register anything")
	}
}

func TestBinder_Register(t *testing.T) {
	r := NewRegistry(testCapability)
	b, err := Bind[widget](r, testCapability)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if err := b.Register("answer", func() widget { return staticWidget{value: 42} }); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	instance, err := r.Create("answer")
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if got := instance.(widget).Value(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestBinder_RegisterOwned(t *testing.T) {
	r := NewRegistry(testCapability)
	b, err := Bind[*closingWidget](r, testCapability)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}
	if err := b.RegisterOwned("tracked", func() *closingWidget { return &closingWidget{} }); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	instance, err := r.Create("tracked")
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !instance.(*closingWidget).closed.Load() {
		t.Error("expected the owned instance to close with the registry")
	}
}

func TestBinder_RegisterCreator(t *testing.T) {
	r := NewRegistry(testCapability)
	b, err := Bind[widget](r, testCapability)
	if err != nil {
		t.Fatalf("unexpected bind error: %v", err)
	}

	if err := b.RegisterCreator("answer", NewCreator(func() widget { return staticWidget{value: 42} })); err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}
	if !r.Has("answer") {
		t.Error("expected the creator to be registered")
	}
}

func TestCreate_Typed(t *testing.T) {
	loader, _ := newTestLoader()
	if err := loader.Load("plugins/answer"); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	w, err := Create[widget](loader, "answer")
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if w.Value() != 42 {
		t.Errorf("expected 42, got %d", w.Value())
	}
}

func TestCreate_TypedMismatch(t *testing.T) {
	loader, _ := newTestLoader()
	if err := loader.Load("plugins/answer"); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if _, err := Create[int](loader, "answer"); !errors.Is(err, ErrCapabilityMismatch) {
		t.Errorf("expected ErrCapabilityMismatch, got %v", err)
	}
}

func TestCreate_TypedPropagatesNotFound(t *testing.T) {
	loader, _ := newTestLoader()

	if _, err := Create[widget](loader, "answer"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}
