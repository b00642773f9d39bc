package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistryNamespaceFallback(t *testing.T) {
	registry := NewRegistry[string]("helper", "Admin", " Shop. ")
	registry.MustRegister("Form", "core form")
	registry.MustRegister("Shop.Form", "shop form")
	registry.MustRegister("Admin.Menu", "admin menu")
	registry.MustRegister("Menu", "core menu")

	cases := []struct {
		name, want, key string
	}{
		{"Form", "shop form", "Shop.Form"},
		{"Menu", "admin menu", "Admin.Menu"},
		{"Shop.Form", "shop form", "Shop.Form"},
	}
	for _, tc := range cases {
		got, key, ok := registry.Resolve(tc.name)
		if !ok || got != tc.want || key != tc.key {
			t.Fatalf("Resolve(%q) = (%q, %q, %v)", tc.name, got, key, ok)
		}
	}

	if registry.Has("Other.Form") {
		t.Fatalf("qualified names must not fall back")
	}
	if registry.Has("") {
		t.Fatalf("blank names never resolve")
	}
	if err := registry.Register("Form", "again"); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := registry.Register(" ", "blank"); err == nil {
		t.Fatalf("expected blank name error")
	}
	if diff := cmp.Diff([]string{"Admin.Menu", "Form", "Menu", "Shop.Form"}, registry.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	var missing *Registry[string]
	if _, _, ok := missing.Resolve("Form"); ok {
		t.Fatalf("nil registry resolves nothing")
	}
}
