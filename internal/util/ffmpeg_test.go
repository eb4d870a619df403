package util

import "testing"

func TestParseProbeOutput(t *testing.T) {
	out := `{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1280, "height": 720}
		],
		"format": {"duration": "3605.48", "size": "73400320", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
	}`

	info, err := parseProbeOutput(out, 1)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Width != 1280 || info.Height != 720 {
		t.Fatalf("unexpected dimensions: %+v", info)
	}
	if info.Duration != 3605.48 {
		t.Fatalf("duration = %v", info.Duration)
	}
	if info.Size != 73400320 {
		t.Fatalf("size = %d", info.Size)
	}
	if info.Format != "mov" {
		t.Fatalf("format = %q", info.Format)
	}
}

func TestParseProbeOutput_FallsBackOnMissingFields(t *testing.T) {
	info, err := parseProbeOutput(`{"streams": [], "format": {}}`, 42)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Size != 42 || info.Format != "unknown" || info.Duration != 0 {
		t.Fatalf("unexpected fallback values: %+v", info)
	}
}

func TestParseProbeOutput_InvalidJSON(t *testing.T) {
	if _, err := parseProbeOutput("not json", 0); err == nil {
		t.Fatal("expected error for invalid ffprobe output")
	}
}
