package video

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name  string
		in    byte
		frame FrameType
		codec Codec
	}{
		{"h264Keyframe", 0x17, KeyFrame, H264},
		{"h264Interframe", 0x27, InterFrame, H264},
		{"vp6Keyframe", 0x14, KeyFrame, VP6},
		{"h263Disposable", 0x32, DisposableInterFrame, SorensonH263},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, c := ParseFlags(tt.in)
			if f != tt.frame || c != tt.codec {
				t.Errorf("got %v %v, want %v %v", f, c, tt.frame, tt.codec)
			}
			if got := Flags(f, c); got != tt.in {
				t.Errorf("got 0x%02x, want 0x%02x", got, tt.in)
			}
		})
	}
}

func TestValid(t *testing.T) {
	if FrameType(0).Valid() || FrameType(6).Valid() {
		t.Error("expected frame types 0 and 6 to be invalid")
	}
	if Codec(0).Valid() || Codec(8).Valid() {
		t.Error("expected codecs 0 and 8 to be invalid")
	}
	if AVCPacketType(3).Valid() {
		t.Error("expected H.264 packet type 3 to be invalid")
	}
	if got := H264.String(); got != "H.264" {
		t.Errorf("got %q", got)
	}
}
