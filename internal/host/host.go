// Package host supplies the context every native-callable builtin runs
// against: the device-automation collaborator, the currently selected
// device, and the logger. There is deliberately no package-level
// singleton here — every builtin that needs one of these receives a
// *Host explicitly at registration time, rather than reaching for
// global state.
package host

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/chazu/scriptrunner/internal/config"
	"github.com/chazu/scriptrunner/internal/value"
)

// DeviceCollaborator is the interface native device builtins call
// through. devicefarm.Client implements it against a real device-farm
// service; tests implement it with an in-memory fake.
type DeviceCollaborator interface {
	ListDevices(ctx context.Context) ([]value.Device, error)
	Tap(ctx context.Context, serial string, x, y int) error
	Swipe(ctx context.Context, serial string, x1, y1, x2, y2, durationMs int) error
	Input(ctx context.Context, serial, text string) error
	KeyEvent(ctx context.Context, serial string, code int) error
	Screenshot(ctx context.Context, serial string) ([]byte, error)
	LaunchApp(ctx context.Context, serial, pkg string) error
	StopApp(ctx context.Context, serial, pkg string) error
	InstallApp(ctx context.Context, serial, apkPath string) error
	UninstallApp(ctx context.Context, serial, pkg string) error
	ClearAppData(ctx context.Context, serial, pkg string) error
	PushFile(ctx context.Context, serial, local, remote string) error
	PullFile(ctx context.Context, serial, remote, local string) error
}

// Host is the bridge context threaded into every builtin registration
// call. One Host is constructed per script run.
type Host struct {
	Collaborator  DeviceCollaborator
	CurrentDevice *value.Device
	Logger        commonlog.Logger
	Config        *config.Config
}

// New constructs a Host. collaborator may be nil for scripts that
// never call a device builtin (the call then fails with a Native
// error naming the missing collaborator, rather than panicking).
func New(collaborator DeviceCollaborator, cfg *config.Config, logger commonlog.Logger) *Host {
	return &Host{Collaborator: collaborator, Config: cfg, Logger: logger}
}

// SelectDevice records d as the host's current device. The device
// builtins do not read it: each takes its target device or serial from
// its first argument.
func (h *Host) SelectDevice(d *value.Device) {
	h.CurrentDevice = d
}
