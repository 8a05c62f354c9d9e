package js

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
)

// registerConsole installs a console whose methods log through slog with
// source=console, at the level the method name suggests.
func registerConsole(vm *goja.Runtime) {
	console := vm.NewObject()
	for name, level := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		console.Set(name, consoleMethod(level))
	}
	vm.Set("console", console)
}

func consoleMethod(level slog.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		slog.Log(context.Background(), level, consoleLine(call.Arguments), "source", "console")
		return goja.Undefined()
	}
}

func consoleLine(args []goja.Value) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(arg.String())
	}
	return b.String()
}
