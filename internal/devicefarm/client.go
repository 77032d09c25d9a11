// Package devicefarm bridges the Script language's device builtins to
// an external device-automation service over Connect/gRPC. Every
// procedure exchanges a google.protobuf.Value envelope rather than a
// protoc-generated message — structpb.Value is already a proto.Message,
// so no code generation step is needed to add or change a procedure.
package devicefarm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/scriptrunner/internal/value"
)

const servicePath = "/scriptrunner.devicefarm.v1.DeviceFarmService"

// Client is a host.DeviceCollaborator backed by a Connect/gRPC service.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
}

// Dial builds a Client addressing a device-farm service at addr. useTLS
// selects https:// over http:// for the base URL; requests go through
// http.DefaultClient, so this is only the scheme, not a custom TLS
// configuration.
func Dial(addr string, useTLS bool) (*Client, error) {
	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	return &Client{
		httpClient: http.DefaultClient,
		baseURL:    fmt.Sprintf("%s://%s", scheme, addr),
	}, nil
}

// withCorrelationID stamps req with a fresh correlation ID so the
// device-farm service's logs can be joined back to the call that
// produced them. req must wrap a *structpb.Struct.
func withCorrelationID(req *structpb.Value) *structpb.Value {
	s := req.GetStructValue()
	if s == nil {
		s = &structpb.Struct{}
	}
	if s.Fields == nil {
		s.Fields = make(map[string]*structpb.Value)
	}
	s.Fields["correlationId"] = structpb.NewStringValue(uuid.New().String())
	return structpb.NewStructValue(s)
}

func (c *Client) call(ctx context.Context, procedure string, req *structpb.Value) (*structpb.Value, error) {
	client := connect.NewClient[structpb.Value, structpb.Value](
		c.httpClient,
		c.baseURL+servicePath+"/"+procedure,
	)
	res, err := client.CallUnary(ctx, connect.NewRequest(withCorrelationID(req)))
	if err != nil {
		return nil, fmt.Errorf("devicefarm: %s: %w", procedure, err)
	}
	return res.Msg, nil
}

func (c *Client) callVoid(ctx context.Context, procedure string, fields map[string]interface{}) error {
	req, err := requestStruct(fields)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, procedure, req)
	return err
}

// ListDevices implements host.DeviceCollaborator.
func (c *Client) ListDevices(ctx context.Context) ([]value.Device, error) {
	res, err := c.call(ctx, "ListDevices", structpb.NewStructValue(&structpb.Struct{}))
	if err != nil {
		return nil, err
	}
	decoded, err := fromWire(res)
	if err != nil {
		return nil, err
	}
	if !decoded.IsArray() {
		return nil, fmt.Errorf("devicefarm: ListDevices response was not an array")
	}
	devices := make([]value.Device, 0, len(decoded.ArrayVal().Elements))
	for _, elem := range decoded.ArrayVal().Elements {
		if !elem.IsObject() {
			return nil, fmt.Errorf("devicefarm: ListDevices element was not an object")
		}
		devices = append(devices, deviceFromFields(elem.ObjectVal().Fields))
	}
	return devices, nil
}

func deviceFromFields(fields map[string]value.Value) value.Device {
	get := func(name string) string {
		if v, ok := fields[name]; ok && v.IsString() {
			return v.Str()
		}
		return ""
	}
	getInt := func(name string) int {
		if v, ok := fields[name]; ok && v.IsNumber() {
			return int(v.AsFloat())
		}
		return 0
	}
	return value.Device{
		Serial:         get("serial"),
		Model:          get("model"),
		ScreenWidth:    getInt("screenWidth"),
		ScreenHeight:   getInt("screenHeight"),
		AndroidVersion: get("androidVersion"),
	}
}

func (c *Client) Tap(ctx context.Context, serial string, x, y int) error {
	return c.callVoid(ctx, "Tap", map[string]interface{}{"serial": serial, "x": x, "y": y})
}

func (c *Client) Swipe(ctx context.Context, serial string, x1, y1, x2, y2, durationMs int) error {
	return c.callVoid(ctx, "Swipe", map[string]interface{}{
		"serial": serial, "x1": x1, "y1": y1, "x2": x2, "y2": y2, "durationMs": durationMs,
	})
}

func (c *Client) Input(ctx context.Context, serial, text string) error {
	return c.callVoid(ctx, "Input", map[string]interface{}{"serial": serial, "text": text})
}

func (c *Client) KeyEvent(ctx context.Context, serial string, code int) error {
	return c.callVoid(ctx, "KeyEvent", map[string]interface{}{"serial": serial, "code": code})
}

func (c *Client) Screenshot(ctx context.Context, serial string) ([]byte, error) {
	req, err := requestStruct(map[string]interface{}{"serial": serial})
	if err != nil {
		return nil, err
	}
	res, err := c.call(ctx, "Screenshot", req)
	if err != nil {
		return nil, err
	}
	decoded, err := fromWire(res)
	if err != nil {
		return nil, err
	}
	if !decoded.IsObject() {
		return nil, fmt.Errorf("devicefarm: Screenshot response was not an object")
	}
	pngBase64, ok := decoded.ObjectVal().Fields["pngBase64"]
	if !ok || !pngBase64.IsString() {
		return nil, fmt.Errorf("devicefarm: Screenshot response missing pngBase64")
	}
	png, err := base64.StdEncoding.DecodeString(pngBase64.Str())
	if err != nil {
		return nil, fmt.Errorf("devicefarm: Screenshot pngBase64: %w", err)
	}
	return png, nil
}

func (c *Client) LaunchApp(ctx context.Context, serial, pkg string) error {
	return c.callVoid(ctx, "LaunchApp", map[string]interface{}{"serial": serial, "pkg": pkg})
}

func (c *Client) StopApp(ctx context.Context, serial, pkg string) error {
	return c.callVoid(ctx, "StopApp", map[string]interface{}{"serial": serial, "pkg": pkg})
}

func (c *Client) InstallApp(ctx context.Context, serial, apkPath string) error {
	return c.callVoid(ctx, "InstallApp", map[string]interface{}{"serial": serial, "apkPath": apkPath})
}

func (c *Client) UninstallApp(ctx context.Context, serial, pkg string) error {
	return c.callVoid(ctx, "UninstallApp", map[string]interface{}{"serial": serial, "pkg": pkg})
}

func (c *Client) ClearAppData(ctx context.Context, serial, pkg string) error {
	return c.callVoid(ctx, "ClearAppData", map[string]interface{}{"serial": serial, "pkg": pkg})
}

func (c *Client) PushFile(ctx context.Context, serial, local, remote string) error {
	return c.callVoid(ctx, "PushFile", map[string]interface{}{"serial": serial, "local": local, "remote": remote})
}

func (c *Client) PullFile(ctx context.Context, serial, remote, local string) error {
	return c.callVoid(ctx, "PullFile", map[string]interface{}{"serial": serial, "remote": remote, "local": local})
}
