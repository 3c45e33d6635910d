package protocol

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// TestJSONCodec_RoundTrip 解码后再编码应逐字段一致
func TestJSONCodec_RoundTrip(t *testing.T) {
	frames := []string{
		`{"event":"newMessage","id":17,"date":"19.10.2026 12:00","message":"hello","type":"text"}`,
		`{"event":"command","id":"c-1","message":"/get погода","type":"weather","weather":{"location":"Moscow","temp":-3.5,"icon":"//cdn/icon.png","condition":"snow"}}`,
		`{"event":"command","message":"/get news","type":"text","location":{"latitude":55.75,"longitude":37.61}}`,
		`{"event":"geolocation","id":3,"message":{"latitude":1.5,"longitude":2.25},"type":"geolocation"}`,
		`{"event":"getLastMessage","status":true,"message":[{"id":1,"date":"d","type":"text","message":"a"},{"id":2,"type":"news","news":{"title":"t","link":"http://x"}}]}`,
		`{"event":"getHistory","status":false}`,
		`{"event":"upLoadFile","id":"f1","file":"data:image/png;base64,AAAA","type":"file","info":{"name":"a.png","category":"image/png"}}`,
		// 嵌套记录缺字段、多字段、温度为字符串、显式 null id
		`{"event":"upLoadFile","id":5,"type":"file","info":{"category":"application/zip"}}`,
		`{"event":"upLoadFile","id":6,"type":"file","info":{"name":"a.txt","category":"text/plain","size":3}}`,
		`{"event":"command","type":"news","news":{"description":"d"}}`,
		`{"event":"command","type":"weather","weather":{"temp":"+5","wind":"NW"}}`,
		`{"event":"getLastMessage","id":null,"status":true,"message":[{"id":null,"type":"text","message":"x"}]}`,
		`{"event":"getHistory","id":null}`,
	}
	codec := JSONCodec{}
	for _, frame := range frames {
		env, err := Unmarshal(codec, []byte(frame), 0)
		if err != nil {
			t.Fatalf("decode %s: %v", frame, err)
		}
		data, err := Marshal(codec, env)
		if err != nil {
			t.Fatalf("encode %s: %v", frame, err)
		}
		again, err := Unmarshal(codec, data, 0)
		if err != nil {
			t.Fatalf("decode re-encoded %s: %v", data, err)
		}
		if !reflect.DeepEqual(env, again) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", again, env)
		}
		var a, b any
		_ = json.Unmarshal([]byte(frame), &a)
		_ = json.Unmarshal(data, &b)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("wire mismatch:\n got %s\nwant %s", data, frame)
		}
	}
}

func TestJSONCodec_DecodeNotObject(t *testing.T) {
	var env Envelope
	err := JSONCodec{}.Decode(bytes.NewBufferString("[]"), &env, 0)
	if err == nil || !strings.Contains(err.Error(), "payload not object") {
		t.Errorf("Expected not object error, got %v", err)
	}
}

func TestJSONCodec_DecodeMalformedJSON(t *testing.T) {
	var env Envelope
	err := JSONCodec{}.Decode(bytes.NewBufferString(`{"event": "newMessage", "message": "hi"`), &env, 0)
	if err == nil || !strings.Contains(err.Error(), "json decode") {
		t.Errorf("Expected json decode error, got %v", err)
	}
}

func TestJSONCodec_DecodeMissingEvent(t *testing.T) {
	var env Envelope
	err := JSONCodec{}.Decode(bytes.NewBufferString(`{"message": "hi"}`), &env, 0)
	if err == nil || !strings.Contains(err.Error(), "missing field: event") {
		t.Errorf("Expected missing field error, got %v", err)
	}
}

func TestJSONCodec_DecodeMaxSize(t *testing.T) {
	var env Envelope
	err := JSONCodec{}.Decode(bytes.NewBufferString(`{"event":"newMessage","message":"hello"}`), &env, 5)
	if err == nil {
		t.Errorf("Expected decode error due to maxSize")
	}
}

func TestJSONCodec_DecodeUnknownField(t *testing.T) {
	var env Envelope
	err := JSONCodec{}.Decode(bytes.NewBufferString(`{"event":"newMessage","message":"hi","colour":"red"}`), &env, 0)
	if err == nil {
		t.Errorf("Expected unknown field to be rejected")
	}
}

func TestValidate_Shapes(t *testing.T) {
	yes := true
	tests := []struct {
		name    string
		env     Envelope
		wantErr string
	}{
		{"text ok", Envelope{Event: EventNewMessage, Message: rawString("x"), Type: KindText}, ""},
		{"unknown event", Envelope{Event: "typing"}, "unknown event"},
		{"status on newMessage", Envelope{Event: EventNewMessage, Status: &yes}, "unexpected status"},
		{"file on command", Envelope{Event: EventCommand, File: "data:"}, "unexpected file"},
		{"location on newMessage", Envelope{Event: EventNewMessage, Location: rawJSON(Coordinates{})}, "unexpected location"},
		{"type on history", Envelope{Event: EventGetHistory, Type: KindText}, "unexpected type"},
		{"history request", Envelope{Event: EventGetHistory, ID: NewIdentifier("9")}, ""},
		{"upload", Envelope{Event: EventUploadFile, File: "data:", Type: KindFile, Info: rawJSON(FileInfo{})}, ""},
		{"null id", Envelope{Event: EventGetHistory, ID: NullIdentifier()}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.env)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("want error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvelope_Messages(t *testing.T) {
	env, err := Unmarshal(JSONCodec{}, []byte(`{"event":"getHistory","status":true,"message":[{"id":5,"type":"text","message":"old"},{"id":4,"type":"geolocation","message":{"latitude":1,"longitude":2}}]}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.OK() {
		t.Fatalf("status should be true")
	}
	msgs, err := env.Messages()
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("want 2 messages, got %d", len(msgs))
	}
	if text, ok := msgs[0].Text(); !ok || text != "old" {
		t.Errorf("text = %q,%v", text, ok)
	}
	if c, ok := msgs[1].Coordinates(); !ok || c.Latitude != 1 || c.Longitude != 2 {
		t.Errorf("coordinates = %+v,%v", c, ok)
	}
	if msgs[1].ID.String() != "4" {
		t.Errorf("id = %s", msgs[1].ID)
	}
}

func TestEnvelope_MessagesEmpty(t *testing.T) {
	env := &Envelope{Event: EventGetHistory}
	msgs, err := env.Messages()
	if err != nil || len(msgs) != 0 {
		t.Fatalf("want empty batch, got %v %v", msgs, err)
	}
}

func TestEnvelope_NestedRecordsAreLenient(t *testing.T) {
	env, err := Unmarshal(JSONCodec{}, []byte(`{"event":"upLoadFile","id":1,"type":"file","info":{"name":"a.png","category":"image/png","size":3}}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fi, ok := env.FileInfo()
	if !ok || fi.Name != "a.png" || fi.Category != "image/png" {
		t.Errorf("file info = %+v,%v", fi, ok)
	}

	env, err = Unmarshal(JSONCodec{}, []byte(`{"event":"command","type":"weather","weather":{"location":"Moscow","temp":"+5"}}`), 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	w, ok := env.ChatMessage().WeatherInfo()
	if !ok || w.Location != "Moscow" || w.TempText() != "+5" {
		t.Errorf("weather = %+v,%v", w, ok)
	}

	if _, ok := (&ChatMessage{}).NewsInfo(); ok {
		t.Error("missing news should report false")
	}
	if _, ok := (&ChatMessage{News: json.RawMessage("null")}).NewsInfo(); ok {
		t.Error("null news should report false")
	}
}

func TestWeatherInfo_TempText(t *testing.T) {
	tests := map[string]string{
		`-3.5`:   "-3.5",
		`"+5"`:   "+5",
		`null`:   "",
		``:       "",
		` 12 `:   "12",
		`"−2 C"`: "−2 C",
	}
	for in, want := range tests {
		if got := (WeatherInfo{Temp: json.RawMessage(in)}).TempText(); got != want {
			t.Errorf("TempText(%q) = %q, want %q", in, got, want)
		}
	}
}
