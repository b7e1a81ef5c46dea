package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    Code
		format  string
		args    []any
		wantMsg string
	}{
		{
			name:    "simple message",
			code:    ErrCodeNoMigrations,
			format:  "no migration files found",
			wantMsg: "NO_MIGRATIONS: no migration files found",
		},
		{
			name:    "formatted message",
			code:    ErrCodeNotADirectory,
			format:  "%s is not a directory",
			args:    []any{"alembic/versions"},
			wantMsg: "NOT_A_DIRECTORY: alembic/versions is not a directory",
		},
		{
			name:    "multiple args",
			code:    ErrCodeInvalidDirection,
			format:  "invalid direction %q (choose one of %s)",
			args:    []any{"XX", "TD, LR, BT, RL"},
			wantMsg: `INVALID_DIRECTION: invalid direction "XX" (choose one of TD, LR, BT, RL)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.format, tt.args...)

			if err.Code != tt.code {
				t.Errorf("Code = %v, want %v", err.Code, tt.code)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if err.Cause != nil {
				t.Errorf("Cause = %v, want nil", err.Cause)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")

	err := Wrap(ErrCodeImageDecode, cause, "open %s", "logo.png")

	if err.Code != ErrCodeImageDecode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeImageDecode)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	wantMsg := "IMAGE_DECODE: open logo.png: underlying error"
	if err.Error() != wantMsg {
		t.Errorf("Error() = %q, want %q", err.Error(), wantMsg)
	}

	// Verify unwrapping works
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause in the chain")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrCodeNoRevision, "no revision identifier"),
			code: ErrCodeNoRevision,
			want: true,
		},
		{
			name: "non-matching code",
			err:  New(ErrCodeNoRevision, "no revision identifier"),
			code: ErrCodeNoMigrations,
			want: false,
		},
		{
			name: "wrapped error with matching code",
			err:  fmt.Errorf("context: %w", New(ErrCodeImageEmpty, "image is fully transparent")),
			code: ErrCodeImageEmpty,
			want: true,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("plain error"),
			code: ErrCodeInternal,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrCodeInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{
			name: "structured error",
			err:  New(ErrCodeRenderFailed, "graphviz rendering failed"),
			want: ErrCodeRenderFailed,
		},
		{
			name: "wrapped structured error",
			err:  fmt.Errorf("outer: %w", New(ErrCodeDirNotFound, "missing")),
			want: ErrCodeDirNotFound,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("plain"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "structured error strips code prefix",
			err:  New(ErrCodeNoMigrations, "no migration files found"),
			want: "no migration files found",
		},
		{
			name: "structured error with cause still strips prefix",
			err:  Wrap(ErrCodeImageDecode, fmt.Errorf("bad header"), "decode logo.png"),
			want: "decode logo.png",
		},
		{
			name: "plain error passes through",
			err:  fmt.Errorf("plain error"),
			want: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
