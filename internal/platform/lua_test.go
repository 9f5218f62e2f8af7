package platform

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func runLuaChecks(t *testing.T, L *lua.LState, tests []struct {
	name string
	code string
	want lua.LValue
}) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := L.DoString(tt.code); err != nil {
				t.Fatalf("failed to execute code: %v", err)
			}
			got := L.Get(-1)
			L.Pop(1)

			if got.Type() != tt.want.Type() {
				t.Errorf("type mismatch: got %v, want %v", got.Type(), tt.want.Type())
				return
			}

			if got.String() != tt.want.String() {
				t.Errorf("value mismatch: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{
		ID:      Linux,
		OSName:  "Linux ubuntu 22.04",
		CPUArch: "GenuineIntel Intel(R) Xeon(R)",
		OS:      "linux",
		Arch:    "amd64",
	}

	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaChecks(t, L, []struct {
		name string
		code string
		want lua.LValue
	}{
		{"id", `return platform.id`, lua.LString("linux")},
		{"label", `return platform.label`, lua.LString("Linux")},
		{"os", `return platform.os`, lua.LString("linux")},
		{"arch", `return platform.arch`, lua.LString("amd64")},
		{"os_name", `return platform.os_name`, lua.LString("Linux ubuntu 22.04")},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_mac", `return platform.is_mac`, lua.LFalse},
		{"is_windows", `return platform.is_windows`, lua.LFalse},
		{"is_apple_silicon", `return platform.is_apple_silicon`, lua.LFalse},
	})
}

func TestInjectPlatformTable_AppleSilicon(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{ID: MacArm, OS: "darwin", Arch: "arm64", CPUArch: "Apple M2"}
	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaChecks(t, L, []struct {
		name string
		code string
		want lua.LValue
	}{
		{"id", `return platform.id`, lua.LString("mac-arm")},
		{"label", `return platform.label`, lua.LString("Mac (Apple Silicon)")},
		{"is_mac", `return platform.is_mac`, lua.LTrue},
		{"is_apple_silicon", `return platform.is_apple_silicon`, lua.LTrue},
		{"cpu", `return platform.cpu`, lua.LString("Apple M2")},
	})
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{ID: Windows, OS: "windows"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	runLuaChecks(t, L, []struct {
		name string
		code string
		want lua.LValue
	}{
		{"true condition", `return platform.when(platform.is_windows, "win")`, lua.LString("win")},
		{"false condition", `return platform.when(platform.is_linux, "linux")`, lua.LNil},
	})
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{ID: Linux, OS: "linux"}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	tests := []struct {
		name string
		code string
	}{
		{"modify existing field", `platform.id = "windows"`},
		{"add new field", `platform.custom = "x"`},
		{"replace metatable", `setmetatable(platform, {})`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := L.DoString(tt.code)
			if err == nil {
				t.Fatal("expected error when modifying platform table")
			}
		})
	}

	// Original value survives the attempted writes
	if err := L.DoString(`return platform.id`); err != nil {
		t.Fatalf("read platform.id: %v", err)
	}
	got := L.Get(-1)
	L.Pop(1)
	if got.String() != "linux" {
		t.Errorf("platform.id = %v, want linux", got)
	}
}

func TestPlatformTable_ReadOnlyErrorMessage(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{ID: Linux}); err != nil {
		t.Fatalf("InjectPlatformTable() error = %v", err)
	}

	err := L.DoString(`platform.id = "mac"`)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %v, want mention of read-only", err)
	}
}
