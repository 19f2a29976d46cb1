package portal

import "testing"

func TestAccessorNames(t *testing.T) {
	tests := []struct {
		field       Field
		accessor    string
		existential string
		plural      string
	}{
		{Field{Name: "content", Kind: KindTarget}, "contentTarget", "hasContentTarget", "contentTargets"},
		{Field{Name: "user-id", Kind: KindValue}, "userIdValue", "hasUserIdValue", "userIdValues"},
		{Field{Name: "busy", Kind: KindClass}, "busyClass", "hasBusyClass", "busyClasses"},
		{Field{Name: "result-list", Kind: KindOutlet}, "resultListOutlet", "hasResultListOutlet", "resultListOutlets"},
	}
	for _, tt := range tests {
		if got := AccessorName(tt.field); got != tt.accessor {
			t.Errorf("AccessorName(%q) = %q, want %q", tt.field.Name, got, tt.accessor)
		}
		if got := ExistentialName(tt.field); got != tt.existential {
			t.Errorf("ExistentialName(%q) = %q, want %q", tt.field.Name, got, tt.existential)
		}
		if got := PluralName(tt.field); got != tt.plural {
			t.Errorf("PluralName(%q) = %q, want %q", tt.field.Name, got, tt.plural)
		}
	}
}

func TestHookNames(t *testing.T) {
	if got := ConnectedHookName("result-list"); got != "resultListTargetConnected" {
		t.Errorf("ConnectedHookName = %q", got)
	}
	if got := DisconnectedHookName("content"); got != "contentTargetDisconnected" {
		t.Errorf("DisconnectedHookName = %q", got)
	}
}
