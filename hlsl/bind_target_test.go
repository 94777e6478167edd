// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "testing"

func TestBindTarget_Default(t *testing.T) {
	bt := DefaultBindTarget()

	if bt.Space != 0 {
		t.Errorf("Space = %d, want 0", bt.Space)
	}
	if bt.Register != 0 {
		t.Errorf("Register = %d, want 0", bt.Register)
	}
}

func TestBindTarget_Chaining(t *testing.T) {
	bt := DefaultBindTarget().
		WithSpace(2).
		WithRegister(5)

	if bt.Space != 2 {
		t.Errorf("Space = %d, want 2", bt.Space)
	}
	if bt.Register != 5 {
		t.Errorf("Register = %d, want 5", bt.Register)
	}
}

func TestBindTarget_Immutability(t *testing.T) {
	// Ensure WithX methods don't modify the original
	original := DefaultBindTarget()
	_ = original.WithSpace(5)

	if original.Space != 0 {
		t.Error("WithSpace should not modify original")
	}

	_ = original.WithRegister(10)
	if original.Register != 0 {
		t.Error("WithRegister should not modify original")
	}
}

func TestRegisterType_String(t *testing.T) {
	tests := []struct {
		rt   RegisterType
		want string
	}{
		{RegisterTypeB, "b"},
		{RegisterTypeT, "t"},
		{RegisterTypeS, "s"},
		{RegisterType(255), "b"}, // Unknown defaults to b
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.rt.String()
			if got != tt.want {
				t.Errorf("RegisterType.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindTarget_Register(t *testing.T) {
	tests := []struct {
		name    string
		bt      BindTarget
		rt      RegisterType
		sm      ShaderModel
		want    string
		wantErr bool
	}{
		{"sm51 texture", BindTarget{Space: 1, Register: 3}, RegisterTypeT, ShaderModel5_1, "register(t3, space1)", false},
		{"sm60 cbuffer", BindTarget{Register: 0}, RegisterTypeB, ShaderModel6_0, "register(b0, space0)", false},
		{"sm50 space 0", BindTarget{Register: 2}, RegisterTypeS, ShaderModel5_0, "register(s2)", false},
		{"sm50 space 1", BindTarget{Space: 1}, RegisterTypeS, ShaderModel5_0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.bt.register(tt.rt, tt.sm)
			if (err != nil) != tt.wantErr {
				t.Fatalf("register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("register() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFakeBindTarget(t *testing.T) {
	bt := fakeBindTarget(ResourceBinding{Group: 1, Binding: 5})
	if bt.Space != 1 || bt.Register != 5 {
		t.Errorf("fakeBindTarget() = %+v, want space 1 register 5", bt)
	}
}
