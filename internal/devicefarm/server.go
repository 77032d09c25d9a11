package devicefarm

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/scriptrunner/internal/value"
)

// Farm is an in-memory device-automation backend: enough state to
// exercise the Script end-to-end against a fake collaborator without a
// real Android fleet. Taps are recorded for assertions; every other
// call (swipe, input, key event, app lifecycle, file transfer) is a
// no-op that always succeeds.
type Farm struct {
	mu      sync.Mutex
	devices []value.Device
	Taps    []TapRecord
}

// TapRecord is one recorded Tap call, kept for test assertions.
type TapRecord struct {
	Serial string
	X, Y   int
}

// NewFarm creates a Farm seeded with the given devices.
func NewFarm(devices []value.Device) *Farm {
	return &Farm{devices: devices}
}

// Server exposes a Farm as a Connect/gRPC service, handling the same
// structpb.Value-in-structpb.Value-out procedures Client calls.
type Server struct {
	farm *Farm
}

// NewServer wraps farm as an HTTP handler mountable on any mux.
func NewServer(farm *Farm) *Server {
	return &Server{farm: farm}
}

// Handler returns the http.Handler serving every device-farm procedure
// at servicePath, suitable for http.ListenAndServe or a test httptest
// server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	register := func(procedure string, fn func(context.Context, *structpb.Value) (*structpb.Value, error)) {
		handler := connect.NewUnaryHandler(servicePath+"/"+procedure, func(ctx context.Context, req *connect.Request[structpb.Value]) (*connect.Response[structpb.Value], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnknown, err)
			}
			return connect.NewResponse(res), nil
		})
		mux.Handle(servicePath+"/"+procedure, handler)
	}

	register("ListDevices", s.handleListDevices)
	register("Tap", s.handleTap)
	register("Swipe", s.handleSwipe)
	register("Input", s.handleInput)
	register("KeyEvent", s.handleKeyEvent)
	register("Screenshot", s.handleScreenshot)
	register("LaunchApp", s.handleAppOp)
	register("StopApp", s.handleAppOp)
	register("InstallApp", s.handleAppOp)
	register("UninstallApp", s.handleAppOp)
	register("ClearAppData", s.handleAppOp)
	register("PushFile", s.handleAppOp)
	register("PullFile", s.handleAppOp)

	return mux
}

func (s *Server) handleListDevices(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	s.farm.mu.Lock()
	defer s.farm.mu.Unlock()
	elems := make([]value.Value, len(s.farm.devices))
	for i, d := range s.farm.devices {
		elems[i] = value.NewObject(map[string]value.Value{
			"serial":         value.String(d.Serial),
			"model":          value.String(d.Model),
			"screenWidth":    value.Int(int64(d.ScreenWidth)),
			"screenHeight":   value.Int(int64(d.ScreenHeight)),
			"androidVersion": value.String(d.AndroidVersion),
		})
	}
	return toWire(value.NewArray(elems))
}

func (s *Server) handleTap(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	args, err := fromWire(req)
	if err != nil {
		return nil, err
	}
	fields := args.ObjectVal().Fields
	s.farm.mu.Lock()
	s.farm.Taps = append(s.farm.Taps, TapRecord{
		Serial: fields["serial"].Str(),
		X:      int(fields["x"].AsFloat()),
		Y:      int(fields["y"].AsFloat()),
	})
	s.farm.mu.Unlock()
	return structpb.NewStructValue(&structpb.Struct{}), nil
}

func (s *Server) handleSwipe(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	return structpb.NewStructValue(&structpb.Struct{}), nil
}

func (s *Server) handleInput(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	return structpb.NewStructValue(&structpb.Struct{}), nil
}

func (s *Server) handleKeyEvent(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	return structpb.NewStructValue(&structpb.Struct{}), nil
}

func (s *Server) handleScreenshot(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	png := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	return toWire(value.NewObject(map[string]value.Value{
		"pngBase64": value.String(png),
	}))
}

func (s *Server) handleAppOp(ctx context.Context, req *structpb.Value) (*structpb.Value, error) {
	return structpb.NewStructValue(&structpb.Struct{}), nil
}
