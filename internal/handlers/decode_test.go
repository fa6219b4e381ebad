package handlers

import "testing"

func TestDecodeBindings_ListOfPairs(t *testing.T) {
	got, err := decodeBindings(`[["1.2.3","a"],["1.2.4","b"]]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != [2]string{"1.2.3", "a"} {
		t.Errorf("unexpected result: %#v", got)
	}
}

func TestDecodeBindings_MapForm(t *testing.T) {
	got, err := decodeBindings(`{"1.2.3":"a"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != [2]string{"1.2.3", "a"} {
		t.Errorf("unexpected result: %#v", got)
	}
}

func TestDecodeBindings_InvalidJSON(t *testing.T) {
	if _, err := decodeBindings("not json"); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}
