package parser

import "testing"

func TestLocateObject_Plain(t *testing.T) {
	frag, ok := LocateObject(`{"a": 1}`)
	if !ok {
		t.Fatal("expected object")
	}
	if string(frag) != `{"a": 1}` {
		t.Errorf("frag = %q", frag)
	}
}

func TestLocateObject_Fenced(t *testing.T) {
	text := "Here are the metrics:\n```json\n{\"work_hours\": 7.5,\n\"mood\": {\"score\": 4}}\n```\nLet me know if you need anything else."
	frag, ok := LocateObject(text)
	if !ok {
		t.Fatal("expected object in fenced response")
	}
	var target struct {
		WorkHours float64 `json:"work_hours"`
	}
	if !DecodeObject(string(frag), &target) {
		t.Fatalf("decode failed for %q", frag)
	}
	if target.WorkHours != 7.5 {
		t.Errorf("work_hours = %v", target.WorkHours)
	}
}

func TestLocateObject_None(t *testing.T) {
	if _, ok := LocateObject("I could not extract any metrics from this note."); ok {
		t.Error("expected no object")
	}
}

func TestLocateArray_Fenced(t *testing.T) {
	text := "```json\n[{\"type\": \"Procrastination\"}, {\"type\": \"Dispersion\"}]\n```"
	var events []map[string]any
	if !DecodeArray(text, &events) {
		t.Fatal("decode failed")
	}
	if len(events) != 2 {
		t.Errorf("len = %d, want 2", len(events))
	}
}

func TestDecodeObject_ShapeMismatch(t *testing.T) {
	var target struct {
		WorkHours float64 `json:"work_hours"`
	}
	if DecodeObject(`{"work_hours": "a lot"}`, &target) {
		t.Error("mismatched shape should not decode")
	}
}

func TestDecodeArray_None(t *testing.T) {
	var events []map[string]any
	if DecodeArray("no events today", &events) {
		t.Error("expected no array")
	}
}
