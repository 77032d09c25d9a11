package devicefarm

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/chazu/scriptrunner/internal/value"
)

func newTestClient(t *testing.T, farm *Farm) *Client {
	t.Helper()
	srv := httptest.NewServer(NewServer(farm).Handler())
	t.Cleanup(srv.Close)
	return &Client{httpClient: srv.Client(), baseURL: srv.URL}
}

func TestListDevicesRoundTrip(t *testing.T) {
	farm := NewFarm([]value.Device{
		{Serial: "emulator-5554", Model: "Pixel 7", ScreenWidth: 1080, ScreenHeight: 2400, AndroidVersion: "14"},
	})
	client := newTestClient(t, farm)

	devices, err := client.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(devices) != 1 || devices[0].Serial != "emulator-5554" {
		t.Fatalf("devices = %+v", devices)
	}
	if devices[0].Model != "Pixel 7" || devices[0].ScreenWidth != 1080 {
		t.Errorf("device = %+v", devices[0])
	}
}

func TestTapRecordedOnFarm(t *testing.T) {
	farm := NewFarm(nil)
	client := newTestClient(t, farm)

	if err := client.Tap(context.Background(), "emulator-5554", 100, 200); err != nil {
		t.Fatalf("Tap failed: %v", err)
	}
	if len(farm.Taps) != 1 || farm.Taps[0] != (TapRecord{Serial: "emulator-5554", X: 100, Y: 200}) {
		t.Errorf("taps = %+v", farm.Taps)
	}
}

func TestScreenshotReturnsBytes(t *testing.T) {
	farm := NewFarm(nil)
	client := newTestClient(t, farm)

	png, err := client.Screenshot(context.Background(), "emulator-5554")
	if err != nil {
		t.Fatalf("Screenshot failed: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected non-empty screenshot bytes")
	}
}

func TestValueWireRoundTrip(t *testing.T) {
	original := value.NewObject(map[string]value.Value{
		"name": value.String("pixel"),
		"tags": value.NewArray([]value.Value{value.Int(1), value.Bool(true), value.Nil}),
	})
	wire, err := toWire(original)
	if err != nil {
		t.Fatalf("toWire failed: %v", err)
	}
	back, err := fromWire(wire)
	if err != nil {
		t.Fatalf("fromWire failed: %v", err)
	}
	if back.ObjectVal().Fields["name"].Str() != "pixel" {
		t.Errorf("name = %v", back.ObjectVal().Fields["name"])
	}
	tags := back.ObjectVal().Fields["tags"].ArrayVal().Elements
	if len(tags) != 3 || tags[0].AsFloat() != 1 || !tags[1].Bool() || !tags[2].IsNil() {
		t.Errorf("tags = %+v", tags)
	}
}
