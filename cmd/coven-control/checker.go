// ABOUTME: Capability checker backed by the settings store's secrets.
// ABOUTME: A capability is usable when its credential secret exists.

package main

import (
	"context"
	"errors"
	"strings"

	"github.com/2389/coven-control/internal/capability"
	"github.com/2389/coven-control/internal/store"
)

// secretChecker probes capability availability by looking for the credential
// secret each capability type needs: an OAuth token, an MCP server URL, or a
// config blob. A missing secret means the capability is not usable.
type secretChecker struct {
	store store.SecretsStore
}

func (c *secretChecker) Check(ctx context.Context, capType capability.Type, baseName string) (bool, error) {
	key := strings.ToUpper(strings.ReplaceAll(baseName, "-", "_"))
	switch capType {
	case capability.TypeMCP:
		key += "_MCP_URL"
	case capability.TypeConfig:
		key += "_CONFIG"
	default:
		key += "_OAUTH_TOKEN"
	}

	_, err := c.store.GetSecretByKey(ctx, key, nil)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
