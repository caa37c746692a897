package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/taskdesk/internal/policy"
	"github.com/mesh-intelligence/taskdesk/internal/repo"
	"github.com/mesh-intelligence/taskdesk/internal/vault"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// usageError is a malformed invocation.
type usageError string

func (e usageError) Error() string { return string(e) }

// userErrors are failures caused by the caller's input or role rather than
// by the system.
var userErrors = []error{
	policy.ErrForbidden,
	repo.ErrUserExists,
	vault.ErrInvalidKey,
	types.ErrNotFound,
	types.ErrAlreadyExists,
	types.ErrInvalidID,
	types.ErrInvalidFilter,
	types.ErrInvalidRole,
	types.ErrInvalidStatus,
	types.ErrInvalidProjectStatus,
	types.ErrInvalidName,
	types.ErrInvalidTitle,
	types.ErrInvalidIdentity,
	types.ErrInvalidContent,
	types.ErrInvalidReference,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSupabaseURLEmpty,
	types.ErrSupabaseKeyEmpty,
	types.ErrRateLimitNegative,
}

// exitCode maps an error returned by a command onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if !commandStarted {
		return exitUserError
	}
	var usage usageError
	if errors.As(err, &usage) {
		return exitUserError
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// splitIDs parses a comma-separated id list, dropping empty items.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, types.ErrNotFound)
}
