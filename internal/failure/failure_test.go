package failure

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKinds(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     error
		kind    error
		message string
	}{
		{
			name:    "transport keeps cause message",
			err:     Transport(cause),
			kind:    ErrTransport,
			message: "connection refused",
		},
		{
			name:    "storage keeps cause message",
			err:     Storage(fs.ErrPermission),
			kind:    ErrStorage,
			message: fs.ErrPermission.Error(),
		},
		{
			name:    "not found",
			err:     NotFound("page %q", "Chess"),
			kind:    ErrNotFound,
			message: `page "Chess": not found`,
		},
		{
			name:    "empty",
			err:     Empty("list %q", "Video Games"),
			kind:    ErrEmpty,
			message: `list "Video Games": empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if tt.err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.message)
			}
		})
	}
}

func TestKinds_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("fetch page: %w", Transport(errors.New("EOF")))

	if !errors.Is(err, ErrTransport) {
		t.Error("wrapped transport error lost its kind")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("transport error must not match ErrNotFound")
	}
}

func TestKinds_CauseReachable(t *testing.T) {
	err := Storage(fs.ErrNotExist)

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("storage error should expose its cause")
	}
}
