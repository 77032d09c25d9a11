package builtins

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chazu/scriptrunner/internal/environment"
	"github.com/chazu/scriptrunner/internal/host"
	"github.com/chazu/scriptrunner/internal/value"
)

// registerDevice binds the builtins that delegate to h.Collaborator.
// Every one of them fails with a descriptive Native error (rather than
// panicking) when h.Collaborator is nil, so a script that never touches
// a device can still run against a Host built without one.
func registerDevice(env *environment.Environment, h *host.Host) {
	collaborator := func(name string) (host.DeviceCollaborator, error) {
		if h == nil || h.Collaborator == nil {
			return nil, fmt.Errorf("%s: no device collaborator is configured", name)
		}
		return h.Collaborator, nil
	}

	define(env, "Device", func(args []value.Value) (value.Value, error) {
		if err := arity("Device", args, 1); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("Device")
		if err != nil {
			return value.Nil, err
		}
		if !args[0].IsString() {
			return value.Nil, argTypeErrorf("Device", 0, "string", args[0].Kind().String())
		}
		devices, err := c.ListDevices(context.Background())
		if err != nil {
			return value.Nil, err
		}
		serial := args[0].Str()
		for _, d := range devices {
			if d.Serial == serial {
				found := d
				if h != nil {
					h.SelectDevice(&found)
				}
				return value.NewDevice(&found), nil
			}
		}
		return value.Nil, fmt.Errorf("Device: no device with serial %q", serial)
	})

	define(env, "GetAllDevices", func(args []value.Value) (value.Value, error) {
		if err := arity("GetAllDevices", args, 0); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("GetAllDevices")
		if err != nil {
			return value.Nil, err
		}
		devices, err := c.ListDevices(context.Background())
		if err != nil {
			return value.Nil, err
		}
		elems := make([]value.Value, len(devices))
		for i := range devices {
			elems[i] = value.NewDevice(&devices[i])
		}
		return value.NewArray(elems), nil
	})

	define(env, "Tap", func(args []value.Value) (value.Value, error) {
		if err := arity("Tap", args, 3); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("Tap")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("Tap", 0, "device", args[0].Kind().String())
		}
		if !args[1].IsInt() || !args[2].IsInt() {
			return value.Nil, argTypeErrorf("Tap", 1, "int, int", "mismatched types")
		}
		return value.Nil, c.Tap(context.Background(), serial, int(args[1].Int()), int(args[2].Int()))
	})

	define(env, "Swipe", func(args []value.Value) (value.Value, error) {
		if err := arity("Swipe", args, 6); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("Swipe")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("Swipe", 0, "device", args[0].Kind().String())
		}
		ints := make([]int, 5)
		for i := 0; i < 5; i++ {
			if !args[i+1].IsInt() {
				return value.Nil, argTypeErrorf("Swipe", i+1, "int", args[i+1].Kind().String())
			}
			ints[i] = int(args[i+1].Int())
		}
		return value.Nil, c.Swipe(context.Background(), serial, ints[0], ints[1], ints[2], ints[3], ints[4])
	})

	define(env, "Input", func(args []value.Value) (value.Value, error) {
		if err := arity("Input", args, 2); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("Input")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("Input", 0, "device", args[0].Kind().String())
		}
		return value.Nil, c.Input(context.Background(), serial, args[1].String())
	})

	define(env, "KeyEvent", func(args []value.Value) (value.Value, error) {
		if err := arity("KeyEvent", args, 2); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("KeyEvent")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("KeyEvent", 0, "device", args[0].Kind().String())
		}
		if !args[1].IsInt() {
			return value.Nil, argTypeErrorf("KeyEvent", 1, "int", args[1].Kind().String())
		}
		return value.Nil, c.KeyEvent(context.Background(), serial, int(args[1].Int()))
	})

	define(env, "Screenshot", func(args []value.Value) (value.Value, error) {
		if err := arity("Screenshot", args, 1); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("Screenshot")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("Screenshot", 0, "device", args[0].Kind().String())
		}
		png, err := c.Screenshot(context.Background(), serial)
		if err != nil {
			return value.Nil, err
		}
		return value.String(base64.StdEncoding.EncodeToString(png)), nil
	})

	appBuiltin := func(name string, call func(host.DeviceCollaborator, context.Context, string, string) error) {
		define(env, name, func(args []value.Value) (value.Value, error) {
			if err := arity(name, args, 2); err != nil {
				return value.Nil, err
			}
			c, err := collaborator(name)
			if err != nil {
				return value.Nil, err
			}
			serial, ok := deviceSerial(args[0])
			if !ok {
				return value.Nil, argTypeErrorf(name, 0, "device", args[0].Kind().String())
			}
			return value.Nil, call(c, context.Background(), serial, args[1].String())
		})
	}

	appBuiltin("LaunchApp", host.DeviceCollaborator.LaunchApp)
	appBuiltin("StopApp", host.DeviceCollaborator.StopApp)
	appBuiltin("InstallApp", host.DeviceCollaborator.InstallApp)
	appBuiltin("UninstallApp", host.DeviceCollaborator.UninstallApp)
	appBuiltin("ClearAppData", host.DeviceCollaborator.ClearAppData)

	define(env, "PushFile", func(args []value.Value) (value.Value, error) {
		if err := arity("PushFile", args, 3); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("PushFile")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("PushFile", 0, "device", args[0].Kind().String())
		}
		return value.Nil, c.PushFile(context.Background(), serial, args[1].String(), args[2].String())
	})

	define(env, "PullFile", func(args []value.Value) (value.Value, error) {
		if err := arity("PullFile", args, 3); err != nil {
			return value.Nil, err
		}
		c, err := collaborator("PullFile")
		if err != nil {
			return value.Nil, err
		}
		serial, ok := deviceSerial(args[0])
		if !ok {
			return value.Nil, argTypeErrorf("PullFile", 0, "device", args[0].Kind().String())
		}
		return value.Nil, c.PullFile(context.Background(), serial, args[1].String(), args[2].String())
	})
}

// deviceSerial accepts either a Device value or a bare string serial,
// so scripts can call device builtins with whichever the enclosing
// code has on hand.
func deviceSerial(v value.Value) (string, bool) {
	switch {
	case v.IsDevice():
		return v.DeviceVal().Serial, true
	case v.IsString():
		return v.Str(), true
	default:
		return "", false
	}
}
