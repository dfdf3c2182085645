package hub

import "testing"

func TestDefault_IsFirstListed(t *testing.T) {
	if Default().ID != Gnymble {
		t.Errorf("Default() = %q, want %q", Default().ID, Gnymble)
	}
	if All()[0].ID != Default().ID {
		t.Error("Default() must be the first-listed hub")
	}
}

func TestGet(t *testing.T) {
	for _, h := range All() {
		got, ok := Get(h.ID)
		if !ok {
			t.Fatalf("Get(%q) not found", h.ID)
		}
		if got.Name == "" {
			t.Errorf("hub %q has no name", h.ID)
		}
		if len(got.Domains.Production) == 0 {
			t.Errorf("hub %q has no production domains", h.ID)
		}
	}

	if _, ok := Get("nope"); ok {
		t.Error("Get should not find an unregistered hub")
	}
}

func TestValid(t *testing.T) {
	if !Valid(PercyMD) {
		t.Error("Valid(percymd) = false")
	}
	if Valid("acme") {
		t.Error("Valid(acme) = true")
	}
}

func TestPrimaryDomain(t *testing.T) {
	h, _ := Get(Gnymble)
	if h.PrimaryDomain() != "gnymble.com" {
		t.Errorf("PrimaryDomain = %q, want gnymble.com", h.PrimaryDomain())
	}
}
