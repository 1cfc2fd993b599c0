package main

import (
	"reflect"
	"testing"
)

func TestParseJSON3Sentences(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []token
	}{
		{
			name: "two events",
			data: `{"events":[
				{"tStartMs":1000,"segs":[{"utf8":"a"}]},
				{"tStartMs":2500,"segs":[{"utf8":"b"}]}
			]}`,
			want: []token{{ms: 1000, text: "a"}, {ms: 2500, text: "b"}},
		},
		{
			name: "segments joined with newlines flattened",
			data: `{"events":[{"tStartMs":0,"segs":[{"utf8":"hello"},{"utf8":"\nworld"}]}]}`,
			want: []token{{ms: 0, text: "hello world"}},
		},
		{
			name: "event without start time skipped",
			data: `{"events":[{"segs":[{"utf8":"a"}]},{"tStartMs":500,"segs":[{"utf8":"b"}]}]}`,
			want: []token{{ms: 500, text: "b"}},
		},
		{
			name: "event without segments skipped",
			data: `{"events":[{"tStartMs":100},{"tStartMs":200,"segs":[{"utf8":"x"}]}]}`,
			want: []token{{ms: 200, text: "x"}},
		},
		{
			name: "whitespace-only text skipped",
			data: `{"events":[{"tStartMs":100,"segs":[{"utf8":" \n "}]}]}`,
			want: nil,
		},
		{
			name: "bracket markers are kept in sentence mode",
			data: `{"events":[{"tStartMs":0,"segs":[{"utf8":"[เพลง]"}]}]}`,
			want: []token{{ms: 0, text: "[เพลง]"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseJSON3Sentences([]byte(tt.data))
			if err != nil {
				t.Fatalf("parseJSON3Sentences() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseJSON3Sentences() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSON3Words(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []token
	}{
		{
			name: "offsets added to event start",
			data: `{"events":[{"tStartMs":1000,"segs":[
				{"utf8":"a"},
				{"utf8":"b","tOffsetMs":300},
				{"utf8":"c","tOffsetMs":700}
			]}]}`,
			want: []token{{ms: 1000, text: "a"}, {ms: 1300, text: "b"}, {ms: 1700, text: "c"}},
		},
		{
			name: "bracket markers skipped in word mode",
			data: `{"events":[{"tStartMs":0,"segs":[{"utf8":"[เพลง]"},{"utf8":"คำ","tOffsetMs":100}]}]}`,
			want: []token{{ms: 100, text: "คำ"}},
		},
		{
			name: "empty tokens skipped",
			data: `{"events":[{"tStartMs":0,"segs":[{"utf8":"  "},{"utf8":"x","tOffsetMs":50}]}]}`,
			want: []token{{ms: 50, text: "x"}},
		},
		{
			name: "event without start time skipped entirely",
			data: `{"events":[{"segs":[{"utf8":"a","tOffsetMs":10}]}]}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseJSON3Words([]byte(tt.data))
			if err != nil {
				t.Fatalf("parseJSON3Words() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseJSON3Words() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSON3Malformed(t *testing.T) {
	if _, err := parseJSON3Sentences([]byte("not json")); err == nil {
		t.Error("parseJSON3Sentences() error = nil for malformed payload")
	}
	if _, err := parseJSON3Words([]byte("{")); err == nil {
		t.Error("parseJSON3Words() error = nil for malformed payload")
	}
}

func TestParseJSON3Idempotent(t *testing.T) {
	data := []byte(`{"events":[{"tStartMs":1000,"segs":[{"utf8":"a"},{"utf8":"b","tOffsetMs":250}]}]}`)
	first, err := parseJSON3Words(data)
	if err != nil {
		t.Fatalf("parseJSON3Words() error = %v", err)
	}
	second, err := parseJSON3Words(data)
	if err != nil {
		t.Fatalf("parseJSON3Words() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ: %+v vs %+v", first, second)
	}
}
